// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerCache_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := NewBadgerCache(BadgerConfig{Path: dir}, zerolog.Nop())
	require.NoError(t, err)
	c.Set(ctx, "doc", []byte("payload"), time.Hour)
	require.NoError(t, c.Close())

	c, err = NewBadgerCache(BadgerConfig{Path: dir}, zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	val, found := c.Get(ctx, "doc")
	require.True(t, found)
	assert.Equal(t, "payload", string(val))

	stats := c.Stats()
	assert.Equal(t, BackendBadger, stats.Backend)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, 1, stats.CurrentSize)
}

func TestBadgerCache_MissAndDelete(t *testing.T) {
	ctx := context.Background()
	c, err := NewBadgerCache(BadgerConfig{}, zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	_, found := c.Get(ctx, "missing")
	assert.False(t, found)

	c.Set(ctx, "k", []byte("v"), 0)
	c.Delete(ctx, "k")
	_, found = c.Get(ctx, "k")
	assert.False(t, found)

	assert.Equal(t, int64(2), c.Stats().Misses)
}
