// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Config selects and configures a backend.
type Config struct {
	Backend         string
	CleanupInterval time.Duration
	Redis           RedisConfig
	Badger          BadgerConfig
}

// New builds the configured backend.
func New(ctx context.Context, cfg Config, logger zerolog.Logger) (Cache, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryCache(cfg.CleanupInterval), nil
	case BackendRedis:
		return NewRedisCache(ctx, cfg.Redis, logger)
	case BackendBadger:
		return NewBadgerCache(cfg.Badger, logger)
	case BackendNone:
		return NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q (supported: memory, redis, badger, none)", cfg.Backend)
	}
}
