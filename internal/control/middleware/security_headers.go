// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/ManuGH/monograph/internal/csp"
)

// PolicySource returns the current CSP inputs. It is consulted per request so
// reloaded configuration takes effect without rebuilding the router.
type PolicySource func() csp.Policy

// SecurityHeaders returns a middleware that adds common security headers to all responses.
// Every response gets the nonce-less policy; document handlers replace it with
// the policy for the nonce they rendered with.
// It requires trustedProxies to safely evaluate X-Forwarded-Proto headers.
func SecurityHeaders(policy PolicySource, trustedProxies []*net.IPNet) func(http.Handler) http.Handler {
	if policy == nil {
		policy = func() csp.Policy { return csp.Policy{} }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Strict Transport Security (HSTS)
			// Only honor X-Forwarded-Proto if the remote IP is a trusted proxy.
			isHTTPS := r.TLS != nil
			if !isHTTPS && strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
				ipStr, _, _ := net.SplitHostPort(r.RemoteAddr)
				if ipStr == "" {
					ipStr = r.RemoteAddr
				}
				ip := net.ParseIP(ipStr)
				if ip != nil && IsIPAllowed(ip, trustedProxies) {
					isHTTPS = true
				}
			}

			if isHTTPS {
				w.Header().Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
			}

			w.Header().Set(csp.HeaderName, policy().Header(""))
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer")

			next.ServeHTTP(w, r)
		})
	}
}
