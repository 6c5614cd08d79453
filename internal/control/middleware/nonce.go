// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package middleware

import (
	"net/http"

	"github.com/ManuGH/monograph/internal/csp"
	"github.com/ManuGH/monograph/internal/log"
)

// NonceSource produces a per-request nonce.
type NonceSource func() (string, error)

// CSPNonce issues a fresh nonce for every request and stores it in the
// request context.
func CSPNonce(next http.Handler) http.Handler {
	return CSPNonceWith(csp.NewNonce)(next)
}

// CSPNonceWith is CSPNonce with a custom source. When the source fails the
// request proceeds without a nonce and documents fall back to the
// same-origin script policy. A nil source uses csp.NewNonce.
func CSPNonceWith(source NonceSource) func(http.Handler) http.Handler {
	if source == nil {
		source = csp.NewNonce
	}
	return func(next http.Handler) http.Handler {
		return nonceHandler(source, next)
	}
}

func nonceHandler(source NonceSource, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce, err := source()
		if err != nil {
			logger := log.WithComponentFromContext(r.Context(), "csp")
			logger.Error().
				Err(err).
				Str(log.FieldEvent, "csp.nonce_failed").
				Msg("nonce generation failed, serving fallback policy")
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(csp.ContextWithNonce(r.Context(), nonce)))
	})
}
