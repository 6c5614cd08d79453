// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import "time"

// Defaults returns the configuration used when neither file nor environment
// set a value.
func Defaults() AppConfig {
	return AppConfig{
		ListenAddr:      ":8080",
		Environment:     EnvProduction,
		ShutdownTimeout: 15 * time.Second,
		Log: LogConfig{
			Level:   "info",
			Service: "monograph",
		},
		Upstream: UpstreamConfig{
			BaseURL:   "http://localhost:3000/api",
			Timeout:   5 * time.Second,
			RateLimit: 20,
			Burst:     40,
		},
		Cache: CacheConfig{
			Backend:         "memory",
			TTL:             5 * time.Minute,
			CleanupInterval: time.Minute,
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				KeyPrefix: "monograph:",
			},
			Badger: BadgerConfig{Path: "data/cache"},
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 120,
			Window:   time.Minute,
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}
