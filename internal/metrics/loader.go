// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

var (
	cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monograph_cache_lookups_total",
		Help: "Total number of loader cache lookups, by backend and result (hit/miss).",
	}, []string{"backend", "result"})

	upstreamFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "monograph_upstream_fetch_duration_seconds",
		Help:    "Upstream monograph API fetch latency, by outcome.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	upstreamDedupedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monograph_upstream_deduplicated_total",
		Help: "Total number of loads that shared an in-flight upstream fetch.",
	})
)

// IncCacheLookup records a cache hit or miss for the backend.
func IncCacheLookup(backend string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(backend, result).Inc()
}

// ObserveUpstreamFetch records one upstream request. outcome is ok, not_found or error.
func ObserveUpstreamFetch(outcome string, d time.Duration) {
	upstreamFetchDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// IncUpstreamDeduplicated records a load served by another caller's fetch.
func IncUpstreamDeduplicated() {
	upstreamDedupedTotal.Inc()
}

// GetCacheLookups returns the current counter value (for testing).
func GetCacheLookups(backend string, hit bool) float64 {
	result := "miss"
	if hit {
		result = "hit"
	}
	return counterValue(cacheLookupsTotal.WithLabelValues(backend, result))
}

// GetCSPPolicies returns the current counter value (for testing).
func GetCSPPolicies(mode string, development bool) float64 {
	env := "production"
	if development {
		env = "development"
	}
	return counterValue(cspPoliciesTotal.WithLabelValues(mode, env))
}

// GetCSPReports returns the current counter value (for testing).
func GetCSPReports(directive string) float64 {
	return counterValue(cspReportsTotal.WithLabelValues(normalizeDirective(directive)))
}

// GetRenderFailures returns the current counter value (for testing).
func GetRenderFailures(route string) float64 {
	return counterValue(renderFailuresTotal.WithLabelValues(route))
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
