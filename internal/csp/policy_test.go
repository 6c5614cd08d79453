// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package csp

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const fixedTail = "form-action 'self'; object-src 'none'; block-all-mixed-content; base-uri 'self'; manifest-src 'self'"

func TestBuild_NonceProduction(t *testing.T) {
	got := Build("abc123", false)
	want := "script-src 'self' 'report-sample' 'nonce-abc123' 'strict-dynamic'; connect-src 'self'; " + fixedTail
	assert.Equal(t, want, got)
}

func TestBuild_NoNonceDevelopment(t *testing.T) {
	got := Build("", true)
	want := "script-src 'self' 'report-sample' 'strict-dynamic'; connect-src 'self' ws://localhost:*; " + fixedTail
	assert.Equal(t, want, got)
}

func TestBuild_AllInputCombinations(t *testing.T) {
	tests := []struct {
		name    string
		nonce   string
		dev     bool
		script  string
		connect string
	}{
		{"nonce/prod", "n0nce", false, "'self' 'report-sample' 'nonce-n0nce' 'strict-dynamic'", "'self'"},
		{"nonce/dev", "n0nce", true, "'self' 'report-sample' 'nonce-n0nce' 'strict-dynamic'", "'self' ws://localhost:*"},
		{"fallback/prod", "", false, "'self' 'report-sample' 'strict-dynamic'", "'self'"},
		{"fallback/dev", "", true, "'self' 'report-sample' 'strict-dynamic'", "'self' ws://localhost:*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(Build(tt.nonce, tt.dev))
			want := map[string]string{
				DirectiveScriptSrc:   tt.script,
				DirectiveConnectSrc:  tt.connect,
				DirectiveFormAction:  "'self'",
				DirectiveObjectSrc:   "'none'",
				DirectiveMixed:       "",
				DirectiveBaseURI:     "'self'",
				DirectiveManifestSrc: "'self'",
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("directives mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nonce := rapid.StringMatching(`[A-Za-z0-9+/]{1,43}={0,2}`).Draw(t, "nonce")
		dev := rapid.Bool().Draw(t, "development")

		policy := Build(nonce, dev)
		directives := Parse(policy)
		script := directives[DirectiveScriptSrc]

		if strings.Count(script, "'nonce-"+nonce+"'") != 1 {
			t.Fatalf("script-src %q must carry nonce %q exactly once", script, nonce)
		}
		if !strings.Contains(script, "'strict-dynamic'") {
			t.Fatalf("script-src %q lacks 'strict-dynamic'", script)
		}
		if !strings.HasSuffix(policy, fixedTail) {
			t.Fatalf("policy %q lacks fixed directives", policy)
		}
		wantConnect := "'self'"
		if dev {
			wantConnect = "'self' ws://localhost:*"
		}
		if directives[DirectiveConnectSrc] != wantConnect {
			t.Fatalf("connect-src = %q, want %q", directives[DirectiveConnectSrc], wantConnect)
		}
	})
}

func TestBuild_FallbackNeverWeakens(t *testing.T) {
	for _, dev := range []bool{false, true} {
		script := Parse(Build("", dev))[DirectiveScriptSrc]
		assert.NotContains(t, script, "'nonce-")
		assert.NotContains(t, script, "'unsafe-inline'")
		assert.True(t, strings.HasPrefix(script, "'self' 'report-sample'"))
	}
}

func TestPolicyHeader(t *testing.T) {
	t.Run("without report uri", func(t *testing.T) {
		p := Policy{Development: false}
		assert.Equal(t, Build("x", false), p.Header("x"))
	})

	t.Run("report uri is appended after fixed directives", func(t *testing.T) {
		p := Policy{Development: true, ReportURI: "/api/csp-report"}
		got := p.Header("x")
		require.True(t, strings.HasPrefix(got, Build("x", true)+"; "))
		assert.Equal(t, "/api/csp-report", Parse(got)[DirectiveReportURI])
	})
}

func TestMode(t *testing.T) {
	assert.Equal(t, "fallback", Mode(""))
	assert.Equal(t, "nonce", Mode("abc"))
}

func TestParse_IgnoresDuplicatesAndBlanks(t *testing.T) {
	got := Parse("Script-Src 'self';; script-src 'none' ; block-all-mixed-content")
	want := map[string]string{
		"script-src":              "'self'",
		"block-all-mixed-content": "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Parse mismatch (-want +got):\n%s", diff)
	}
}
