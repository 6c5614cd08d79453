// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package metrics provides Prometheus metrics for document rendering, CSP and data loading.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// No request IDs, nonces or monograph IDs in labels.

var (
	renderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "monograph_render_duration_seconds",
		Help:    "Time to render a document (head, body, critical CSS and shell), by route and status.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	}, []string{"route", "status"})

	renderFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monograph_render_failures_total",
		Help: "Total number of document renders that fell back to the error page, by route.",
	}, []string{"route"})

	cspPoliciesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monograph_csp_policies_total",
		Help: "Total number of Content-Security-Policy headers issued by documents, by mode and environment.",
	}, []string{"mode", "env"})

	cspReportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monograph_csp_reports_total",
		Help: "Total number of CSP violation reports received, by effective directive.",
	}, []string{"directive"})

	criticalCSSBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "monograph_critical_css_bytes",
		Help:    "Size of the critical CSS inlined into documents.",
		Buckets: prometheus.ExponentialBuckets(64, 4, 7),
	})
)

// ObserveRender records one document render.
func ObserveRender(route string, status int, d time.Duration) {
	if route == "" {
		route = "unknown"
	}
	renderDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}

// IncRenderFailure records a render that degraded to the error document.
func IncRenderFailure(route string) {
	if route == "" {
		route = "unknown"
	}
	renderFailuresTotal.WithLabelValues(route).Inc()
}

// IncCSPPolicy records an issued policy. mode is "nonce" or "fallback".
func IncCSPPolicy(mode string, development bool) {
	env := "production"
	if development {
		env = "development"
	}
	cspPoliciesTotal.WithLabelValues(mode, env).Inc()
}

// IncCSPReport records a violation report. Unknown directives collapse into "other".
func IncCSPReport(directive string) {
	cspReportsTotal.WithLabelValues(normalizeDirective(directive)).Inc()
}

// ObserveCriticalCSS records the number of inlined CSS bytes.
func ObserveCriticalCSS(n int) {
	criticalCSSBytes.Observe(float64(n))
}

var knownDirectives = map[string]struct{}{
	"script-src":      {},
	"script-src-elem": {},
	"script-src-attr": {},
	"style-src":       {},
	"style-src-elem":  {},
	"connect-src":     {},
	"form-action":     {},
	"object-src":      {},
	"base-uri":        {},
	"manifest-src":    {},
	"img-src":         {},
	"font-src":        {},
	"default-src":     {},
}

func normalizeDirective(d string) string {
	if _, ok := knownDirectives[d]; ok {
		return d
	}
	return "other"
}
