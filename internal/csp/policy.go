// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package csp builds the Content-Security-Policy header attached to rendered documents.
package csp

import "strings"

// HeaderName is the response header carrying the policy.
const HeaderName = "Content-Security-Policy"

// Directive names used by the document policy.
const (
	DirectiveScriptSrc   = "script-src"
	DirectiveConnectSrc  = "connect-src"
	DirectiveFormAction  = "form-action"
	DirectiveObjectSrc   = "object-src"
	DirectiveMixed       = "block-all-mixed-content"
	DirectiveBaseURI     = "base-uri"
	DirectiveManifestSrc = "manifest-src"
	DirectiveReportURI   = "report-uri"
)

const (
	scriptSources     = "'self' 'report-sample'"
	strictDynamic     = "'strict-dynamic'"
	connectProduction = "'self'"
	// Live-reload sockets bind to an arbitrary loopback port in development.
	connectDevelopment = "'self' ws://localhost:*"
)

// fixedDirectives are emitted verbatim, in order, for every input.
var fixedDirectives = []string{
	DirectiveFormAction + " 'self'",
	DirectiveObjectSrc + " 'none'",
	DirectiveMixed,
	DirectiveBaseURI + " 'self'",
	DirectiveManifestSrc + " 'self'",
}

// Build returns the policy for a document rendered with nonce. An empty nonce
// means the document carries no nonce (error pages); scripts are then limited
// to same-origin sources in every environment.
func Build(nonce string, isDevelopment bool) string {
	var b strings.Builder
	b.Grow(256 + len(nonce))

	b.WriteString(DirectiveScriptSrc)
	b.WriteByte(' ')
	b.WriteString(scriptSources)
	if nonce != "" {
		b.WriteString(" 'nonce-")
		b.WriteString(nonce)
		b.WriteByte('\'')
	}
	b.WriteByte(' ')
	b.WriteString(strictDynamic)

	b.WriteString("; ")
	b.WriteString(DirectiveConnectSrc)
	b.WriteByte(' ')
	if isDevelopment {
		b.WriteString(connectDevelopment)
	} else {
		b.WriteString(connectProduction)
	}

	for _, d := range fixedDirectives {
		b.WriteString("; ")
		b.WriteString(d)
	}
	return b.String()
}

// Policy carries the process-wide inputs of the header. It is a value type so
// a snapshot can be swapped atomically on config reload.
type Policy struct {
	Development bool
	// ReportURI, when set, is appended as a trailing report-uri directive.
	ReportURI string
}

// Header returns the header value for a response rendered with nonce.
func (p Policy) Header(nonce string) string {
	policy := Build(nonce, p.Development)
	if p.ReportURI == "" {
		return policy
	}
	return policy + "; " + DirectiveReportURI + " " + p.ReportURI
}

// Mode labels whether a policy was issued with or without a nonce.
func Mode(nonce string) string {
	if nonce == "" {
		return "fallback"
	}
	return "nonce"
}

// Parse splits a policy into directive name -> value. Value-less directives
// map to the empty string. Later duplicates are ignored, as browsers do.
func Parse(policy string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(policy, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, " ")
		name = strings.ToLower(name)
		if _, seen := out[name]; seen {
			continue
		}
		out[name] = strings.TrimSpace(value)
	}
	return out
}
