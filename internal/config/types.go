// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads the server configuration from defaults, a strict YAML
// file and MONOGRAPH_* environment variables, and reloads it on file change.
package config

import (
	"time"

	"github.com/ManuGH/monograph/internal/csp"
)

// Environment names.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// AppConfig is the effective server configuration.
type AppConfig struct {
	ListenAddr      string          `yaml:"listen" json:"listen"`
	Environment     string          `yaml:"environment" json:"environment"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout" json:"shutdownTimeout"`
	TrustedProxies  []string        `yaml:"trustedProxies,omitempty" json:"trustedProxies,omitempty"`
	Log             LogConfig       `yaml:"log" json:"log"`
	CSP             CSPConfig       `yaml:"csp" json:"csp"`
	Upstream        UpstreamConfig  `yaml:"upstream" json:"upstream"`
	Cache           CacheConfig     `yaml:"cache" json:"cache"`
	RateLimit       RateLimitConfig `yaml:"rateLimit" json:"rateLimit"`
	Telemetry       TelemetryConfig `yaml:"telemetry" json:"telemetry"`
	Metrics         MetricsConfig   `yaml:"metrics" json:"metrics"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level   string `yaml:"level" json:"level"`
	Service string `yaml:"service" json:"service"`
}

// CSPConfig configures the Content-Security-Policy header.
type CSPConfig struct {
	// ReportURI is appended as a report-uri directive when set.
	ReportURI string `yaml:"reportUri,omitempty" json:"reportUri,omitempty"`
}

// UpstreamConfig configures the monograph content API.
type UpstreamConfig struct {
	BaseURL   string        `yaml:"baseUrl" json:"baseUrl"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	RateLimit float64       `yaml:"rateLimit" json:"rateLimit"`
	Burst     int           `yaml:"burst" json:"burst"`
}

// CacheConfig configures the loader cache.
type CacheConfig struct {
	Backend         string        `yaml:"backend" json:"backend"`
	TTL             time.Duration `yaml:"ttl" json:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanupInterval" json:"cleanupInterval"`
	Redis           RedisConfig   `yaml:"redis" json:"redis"`
	Badger          BadgerConfig  `yaml:"badger" json:"badger"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr      string `yaml:"addr" json:"addr"`
	Password  string `yaml:"password,omitempty" json:"-"`
	DB        int    `yaml:"db" json:"db"`
	KeyPrefix string `yaml:"keyPrefix" json:"keyPrefix"`
}

// BadgerConfig configures the badger backend.
type BadgerConfig struct {
	Path string `yaml:"path" json:"path"`
}

// RateLimitConfig configures per-client request limiting.
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled" json:"enabled"`
	Requests int           `yaml:"requests" json:"requests"`
	Window   time.Duration `yaml:"window" json:"window"`
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled" json:"enabled"`
	Exporter     string  `yaml:"exporter" json:"exporter"`
	Endpoint     string  `yaml:"endpoint" json:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate" json:"samplingRate"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// IsDevelopment reports whether the development policy applies.
func (c AppConfig) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// Policy returns the CSP settings derived from c.
func (c AppConfig) Policy() csp.Policy {
	return csp.Policy{Development: c.IsDevelopment(), ReportURI: c.CSP.ReportURI}
}
