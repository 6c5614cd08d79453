// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/monograph/internal/log"
	"github.com/rs/zerolog"
)

// Environment variables read by the loader.
const (
	EnvListen          = "MONOGRAPH_LISTEN"
	EnvEnvironment     = "MONOGRAPH_ENV"
	EnvLogLevel        = "MONOGRAPH_LOG_LEVEL"
	EnvShutdownTimeout = "MONOGRAPH_SHUTDOWN_TIMEOUT"
	EnvTrustedProxies  = "MONOGRAPH_TRUSTED_PROXIES"
	EnvCSPReportURI    = "MONOGRAPH_CSP_REPORT_URI"
	EnvUpstreamURL     = "MONOGRAPH_UPSTREAM_URL"
	EnvUpstreamTimeout = "MONOGRAPH_UPSTREAM_TIMEOUT"
	EnvUpstreamRate    = "MONOGRAPH_UPSTREAM_RATE"
	EnvUpstreamBurst   = "MONOGRAPH_UPSTREAM_BURST"
	EnvCacheBackend    = "MONOGRAPH_CACHE_BACKEND"
	EnvCacheTTL        = "MONOGRAPH_CACHE_TTL"
	EnvRedisAddr       = "MONOGRAPH_REDIS_ADDR"
	EnvRedisPassword   = "MONOGRAPH_REDIS_PASSWORD"
	EnvRedisDB         = "MONOGRAPH_REDIS_DB"
	EnvBadgerPath      = "MONOGRAPH_BADGER_PATH"
	EnvRateLimit       = "MONOGRAPH_RATELIMIT_ENABLED"
	EnvRateLimitReqs   = "MONOGRAPH_RATELIMIT_REQUESTS"
	EnvTracing         = "MONOGRAPH_TRACING_ENABLED"
	EnvTracingEndpoint = "MONOGRAPH_TRACING_ENDPOINT"
	EnvTracingExporter = "MONOGRAPH_TRACING_EXPORTER"
	EnvTracingSampling = "MONOGRAPH_TRACING_SAMPLING_RATE"
	EnvMetrics         = "MONOGRAPH_METRICS_ENABLED"
)

func envLogger() zerolog.Logger {
	return log.WithComponent("config")
}

func isSensitive(key string) bool {
	lowerKey := strings.ToLower(key)
	return strings.Contains(lowerKey, "token") || strings.Contains(lowerKey, "password")
}

// ParseString reads a string from environment variable or returns default value.
// It logs the source (environment or default) for observability.
func ParseString(key, defaultValue string) string {
	logger := envLogger()
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		logger.Debug().Str("key", key).Str("source", "default").Msg("using default value")
		return defaultValue
	}
	if isSensitive(key) {
		logger.Debug().Str("key", key).Str("source", "environment").Bool("sensitive", true).Msg("using environment variable")
		return value
	}
	logger.Debug().Str("key", key).Str("value", value).Str("source", "environment").Msg("using environment variable")
	return value
}

// ParseInt reads an integer from environment variable or returns default value.
// It validates the input and falls back to default on parse errors.
func ParseInt(key string, defaultValue int) int {
	logger := envLogger()
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", v).Int("default", defaultValue).
			Msg("invalid integer in environment variable, using default")
		return defaultValue
	}
	logger.Debug().Str("key", key).Int("value", i).Str("source", "environment").Msg("using environment variable")
	return i
}

// ParseFloat reads a float64 from environment variable or returns default value.
func ParseFloat(key string, defaultValue float64) float64 {
	logger := envLogger()
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", v).Float64("default", defaultValue).
			Msg("invalid float in environment variable, using default")
		return defaultValue
	}
	logger.Debug().Str("key", key).Float64("value", f).Str("source", "environment").Msg("using environment variable")
	return f
}

// ParseDuration reads a duration from environment variable in Go duration format (e.g. "5s").
// It falls back to default on parse errors or empty variables and logs the choice.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	logger := envLogger()
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", v).Dur("default", defaultValue).
			Msg("invalid duration in environment variable, using default")
		return defaultValue
	}
	logger.Debug().Str("key", key).Dur("value", d).Str("source", "environment").Msg("using environment variable")
	return d
}

// ParseBool reads a boolean from environment variable or returns default value.
// It accepts "true", "false", "1", "0", "yes", "no" (case-insensitive).
func ParseBool(key string, defaultValue bool) bool {
	logger := envLogger()
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		logger.Debug().Str("key", key).Bool("value", true).Str("source", "environment").Msg("using environment variable")
		return true
	case "false", "0", "no":
		logger.Debug().Str("key", key).Bool("value", false).Str("source", "environment").Msg("using environment variable")
		return false
	default:
		logger.Warn().Str("key", key).Str("value", v).Bool("default", defaultValue).
			Msg("invalid boolean in environment variable, using default")
		return defaultValue
	}
}

// ParseList reads a comma-separated list. Blank items are dropped.
func ParseList(key string, defaultValue []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// mergeEnv applies environment overrides onto cfg.
func mergeEnv(cfg *AppConfig) {
	cfg.ListenAddr = ParseString(EnvListen, cfg.ListenAddr)
	cfg.Environment = strings.ToLower(ParseString(EnvEnvironment, cfg.Environment))
	cfg.Log.Level = ParseString(EnvLogLevel, cfg.Log.Level)
	cfg.ShutdownTimeout = ParseDuration(EnvShutdownTimeout, cfg.ShutdownTimeout)
	cfg.TrustedProxies = ParseList(EnvTrustedProxies, cfg.TrustedProxies)
	cfg.CSP.ReportURI = ParseString(EnvCSPReportURI, cfg.CSP.ReportURI)

	cfg.Upstream.BaseURL = ParseString(EnvUpstreamURL, cfg.Upstream.BaseURL)
	cfg.Upstream.Timeout = ParseDuration(EnvUpstreamTimeout, cfg.Upstream.Timeout)
	cfg.Upstream.RateLimit = ParseFloat(EnvUpstreamRate, cfg.Upstream.RateLimit)
	cfg.Upstream.Burst = ParseInt(EnvUpstreamBurst, cfg.Upstream.Burst)

	cfg.Cache.Backend = strings.ToLower(ParseString(EnvCacheBackend, cfg.Cache.Backend))
	cfg.Cache.TTL = ParseDuration(EnvCacheTTL, cfg.Cache.TTL)
	cfg.Cache.Redis.Addr = ParseString(EnvRedisAddr, cfg.Cache.Redis.Addr)
	cfg.Cache.Redis.Password = ParseString(EnvRedisPassword, cfg.Cache.Redis.Password)
	cfg.Cache.Redis.DB = ParseInt(EnvRedisDB, cfg.Cache.Redis.DB)
	cfg.Cache.Badger.Path = ParseString(EnvBadgerPath, cfg.Cache.Badger.Path)

	cfg.RateLimit.Enabled = ParseBool(EnvRateLimit, cfg.RateLimit.Enabled)
	cfg.RateLimit.Requests = ParseInt(EnvRateLimitReqs, cfg.RateLimit.Requests)

	cfg.Telemetry.Enabled = ParseBool(EnvTracing, cfg.Telemetry.Enabled)
	cfg.Telemetry.Endpoint = ParseString(EnvTracingEndpoint, cfg.Telemetry.Endpoint)
	cfg.Telemetry.Exporter = ParseString(EnvTracingExporter, cfg.Telemetry.Exporter)
	cfg.Telemetry.SamplingRate = ParseFloat(EnvTracingSampling, cfg.Telemetry.SamplingRate)

	cfg.Metrics.Enabled = ParseBool(EnvMetrics, cfg.Metrics.Enabled)
}
