// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/monograph/internal/csp"
)

func TestCSPNonce_UniquePerRequest(t *testing.T) {
	var seen []string
	handler := CSPNonce(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, csp.NonceFromContext(r.Context()))
	}))

	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	require.Len(t, seen, 3)
	for _, n := range seen {
		assert.NotEmpty(t, n)
	}
	assert.NotEqual(t, seen[0], seen[1])
	assert.NotEqual(t, seen[1], seen[2])
}

func TestCSPNonceWith_FailingSourceContinuesWithoutNonce(t *testing.T) {
	called := false
	handler := CSPNonceWith(func() (string, error) {
		return "", errors.New("entropy exhausted")
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Empty(t, csp.NonceFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSPNonceWith_NilSourceGenerates(t *testing.T) {
	var got string
	handler := CSPNonceWith(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = csp.NonceFromContext(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, got)
}
