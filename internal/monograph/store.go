// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package monograph

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ManuGH/monograph/internal/cache"
	"github.com/ManuGH/monograph/internal/log"
	"github.com/ManuGH/monograph/internal/metrics"
	"github.com/ManuGH/monograph/internal/telemetry"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const (
	keyPrefix = "monograph:"

	// defaultFetchTimeout bounds a shared upstream fetch, including the time
	// spent waiting on the rate limiter.
	defaultFetchTimeout = 15 * time.Second
)

// Fetcher is the upstream side of a Store.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (*Monograph, error)
}

// Store is the route loader: cache first, then a deduplicated upstream fetch.
type Store struct {
	fetcher      Fetcher
	cache        cache.Cache
	backend      string
	ttl          time.Duration
	fetchTimeout time.Duration
	group        singleflight.Group
}

// NewStore wires a fetcher to a cache. ttl <= 0 disables caching of results.
func NewStore(fetcher Fetcher, c cache.Cache, ttl time.Duration) *Store {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	return &Store{
		fetcher:      fetcher,
		cache:        c,
		backend:      c.Stats().Backend,
		ttl:          ttl,
		fetchTimeout: defaultFetchTimeout,
	}
}

// Get returns the monograph for id.
func (s *Store) Get(ctx context.Context, id string) (*Monograph, error) {
	if !ValidID(id) {
		return nil, ErrNotFound
	}
	logger := log.WithComponentFromContext(ctx, "loader")
	backend := s.backend

	if raw, ok := s.cache.Get(ctx, keyPrefix+id); ok {
		var m Monograph
		if err := json.Unmarshal(raw, &m); err == nil {
			metrics.IncCacheLookup(backend, true)
			trace.SpanFromContext(ctx).SetAttributes(telemetry.MonographAttributes(id, true)...)
			return &m, nil
		}
		logger.Warn().Str(log.FieldMonograph, id).Msg("dropping undecodable cache entry")
		s.cache.Delete(ctx, keyPrefix+id)
	}
	metrics.IncCacheLookup(backend, false)
	trace.SpanFromContext(ctx).SetAttributes(telemetry.MonographAttributes(id, false)...)

	// The fetch is detached from the caller so one cancelled request does not
	// fail the others sharing it; fetchTimeout bounds its lifetime instead.
	ch := s.group.DoChan(id, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		m, err := s.fetcher.Fetch(fetchCtx, id)
		if err != nil {
			return nil, err
		}
		if s.ttl > 0 {
			if raw, err := json.Marshal(m); err == nil {
				s.cache.Set(fetchCtx, keyPrefix+id, raw, s.ttl)
			}
		}
		return m, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		logger.Debug().Str(log.FieldMonograph, id).Msg("caller gave up waiting for monograph")
		return nil, ctx.Err()
	}
	if res.Shared {
		metrics.IncUpstreamDeduplicated()
		logger.Debug().Str(log.FieldMonograph, id).Msg("served monograph from shared fetch")
	}
	if res.Err != nil {
		return nil, res.Err
	}
	m := *res.Val.(*Monograph)
	return &m, nil
}
