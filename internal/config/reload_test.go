// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigHolder_Reload(t *testing.T) {
	path := writeConfig(t, "environment: production\n")
	loader := NewLoader(path)
	initial, err := loader.Load()
	require.NoError(t, err)

	h := NewConfigHolder(initial, loader)
	var calls atomic.Int32
	h.OnReload(func(old, updated AppConfig) {
		calls.Add(1)
		assert.False(t, old.IsDevelopment())
		assert.True(t, updated.IsDevelopment())
	})

	require.NoError(t, os.WriteFile(path, []byte("environment: development\n"), 0o600))
	require.NoError(t, h.Reload(context.Background()))

	assert.True(t, h.Get().IsDevelopment())
	assert.Equal(t, int32(1), calls.Load())
}

func TestConfigHolder_ReloadKeepsOldOnError(t *testing.T) {
	path := writeConfig(t, "log:\n  level: warn\n")
	loader := NewLoader(path)
	initial, err := loader.Load()
	require.NoError(t, err)
	h := NewConfigHolder(initial, loader)

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: shouting\n"), 0o600))
	require.Error(t, h.Reload(context.Background()))
	assert.Equal(t, "warn", h.Get().Log.Level)
}

func TestConfigHolder_WatcherReloadsOnChange(t *testing.T) {
	path := writeConfig(t, "log:\n  level: info\n")
	loader := NewLoader(path)
	initial, err := loader.Load()
	require.NoError(t, err)

	h := NewConfigHolder(initial, loader)
	h.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, h.StartWatcher(ctx))

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))
	assert.Eventually(t, func() bool { return h.Get().Log.Level == "debug" }, 5*time.Second, 20*time.Millisecond)

	cancel()
	h.Wait()
}

func TestConfigHolder_WatcherDisabledWithoutFile(t *testing.T) {
	h := NewConfigHolder(Defaults(), NewLoader(""))
	require.NoError(t, h.StartWatcher(context.Background()))
	h.Wait()
}
