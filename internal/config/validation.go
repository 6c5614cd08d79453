// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// Validate checks cfg and returns every problem found, joined.
func Validate(cfg AppConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.ListenAddr) == "" {
		errs = append(errs, errors.New("listen: must not be empty"))
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddr); err != nil {
		errs = append(errs, fmt.Errorf("listen: %w", err))
	}

	switch cfg.Environment {
	case EnvProduction, EnvDevelopment:
	default:
		errs = append(errs, fmt.Errorf("environment: %q is not one of production, development", cfg.Environment))
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdownTimeout: must be positive"))
	}

	if err := validateCIDRList("trustedProxies", cfg.TrustedProxies); err != nil {
		errs = append(errs, err)
	}

	if cfg.CSP.ReportURI != "" {
		if err := validateReportURI(cfg.CSP.ReportURI); err != nil {
			errs = append(errs, err)
		}
	}

	if u, err := url.Parse(cfg.Upstream.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("upstream.baseUrl: %q must be an absolute http(s) URL", cfg.Upstream.BaseURL))
	}
	if cfg.Upstream.Timeout <= 0 {
		errs = append(errs, errors.New("upstream.timeout: must be positive"))
	}
	if cfg.Upstream.RateLimit <= 0 || cfg.Upstream.Burst <= 0 {
		errs = append(errs, errors.New("upstream.rateLimit and upstream.burst: must be positive"))
	}

	switch cfg.Cache.Backend {
	case "memory", "none":
	case "redis":
		if cfg.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr: required for redis backend"))
		}
	case "badger":
		if cfg.Cache.Badger.Path == "" {
			errs = append(errs, errors.New("cache.badger.path: required for badger backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend: %q is not one of memory, redis, badger, none", cfg.Cache.Backend))
	}
	if cfg.Cache.TTL < 0 {
		errs = append(errs, errors.New("cache.ttl: must not be negative"))
	}

	if cfg.RateLimit.Enabled && (cfg.RateLimit.Requests <= 0 || cfg.RateLimit.Window <= 0) {
		errs = append(errs, errors.New("rateLimit: requests and window must be positive when enabled"))
	}

	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.Exporter != "grpc" && cfg.Telemetry.Exporter != "http" {
			errs = append(errs, fmt.Errorf("telemetry.exporter: %q is not one of grpc, http", cfg.Telemetry.Exporter))
		}
		if cfg.Telemetry.Endpoint == "" {
			errs = append(errs, errors.New("telemetry.endpoint: required when telemetry is enabled"))
		}
	}
	if cfg.Telemetry.SamplingRate < 0 || cfg.Telemetry.SamplingRate > 1 {
		errs = append(errs, errors.New("telemetry.samplingRate: must be within [0, 1]"))
	}

	return errors.Join(errs...)
}

// validateReportURI rejects values that would break the header grammar.
func validateReportURI(uri string) error {
	if strings.ContainsAny(uri, "; ,\r\n\t") {
		return fmt.Errorf("csp.reportUri: %q must not contain separators or whitespace", uri)
	}
	u, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("csp.reportUri: %w", err)
	}
	if !u.IsAbs() && !strings.HasPrefix(uri, "/") {
		return fmt.Errorf("csp.reportUri: %q must be absolute or start with /", uri)
	}
	return nil
}

// validateCIDRList validates a list of CIDR/IP entries and blocks forbidden networks.
func validateCIDRList(key string, entries []string) error {
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		ip, ipnet, err := net.ParseCIDR(entry)
		if err == nil {
			if err := checkForbiddenNetwork(key, entry, ip, ipnet); err != nil {
				return err
			}
			continue
		}

		ip = net.ParseIP(entry)
		if ip == nil {
			return fmt.Errorf("invalid %s: invalid entry %q (must be CIDR or IP)", key, entry)
		}
		if ip.IsUnspecified() {
			return fmt.Errorf("%s contains unspecified address %q (not allowed)", key, entry)
		}
	}
	return nil
}

// checkForbiddenNetwork checks if a CIDR network is forbidden (e.g., 0.0.0.0/0, ::/0).
func checkForbiddenNetwork(key, entry string, ip net.IP, ipnet *net.IPNet) error {
	ones, bits := ipnet.Mask.Size()

	if ones == 0 {
		if bits == 32 {
			return fmt.Errorf("%s contains forbidden CIDR %q (trust-all IPv4 is not allowed)", key, entry)
		}
		if bits == 128 {
			return fmt.Errorf("%s contains forbidden CIDR %q (trust-all IPv6 is not allowed)", key, entry)
		}
	}

	if ip.IsUnspecified() && ones == bits {
		return fmt.Errorf("%s contains unspecified address %q (not allowed)", key, entry)
	}
	return nil
}
