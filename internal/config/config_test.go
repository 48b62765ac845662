package config

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"snappick/internal/eventbus"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cs := NewConfigServiceAt(path, nil)

	cfg := &Config{
		Version:         1,
		BaseDir:         "/snaps",
		CurrentSnapshot: "/snaps/myproj",
		UISettings:      UISettings{ShowPaths: true, AutoScanOnOpen: false},
	}
	require.NoError(t, cs.Save(cfg))

	loaded, err := cs.Load()
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestLoadReturnsDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cs := NewConfigServiceAt(path, nil)

	cfg, err := cs.Load()
	require.NoError(t, err)
	require.Equal(t, 1, cfg.Version)
	require.Empty(t, cfg.CurrentSnapshot)
	require.True(t, cfg.UISettings.ShowPaths)
}

func TestLoadPublishesConfigLoaded(t *testing.T) {
	bus := eventbus.New()

	var mu sync.Mutex
	var got *eventbus.ConfigLoadedEvent
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.ConfigLoadedEvent); ok {
			mu.Lock()
			got = &ev
			mu.Unlock()
		}
	})

	path := filepath.Join(t.TempDir(), "config.toml")
	cs := NewConfigServiceAt(path, bus)
	require.NoError(t, cs.Save(&Config{Version: 1, BaseDir: "/snaps", CurrentSnapshot: "/snaps/a"}))

	_, err := cs.Load()
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, got)
	require.Equal(t, "/snaps", got.BaseDir)
	require.Equal(t, "/snaps/a", got.CurrentSnapshot)
}

func TestSavePublishesConfigSaved(t *testing.T) {
	bus := eventbus.New()

	var mu sync.Mutex
	saved := 0
	bus.Subscribe(eventbus.EventConfigSaved, func(eventbus.DomainEvent) {
		mu.Lock()
		saved++
		mu.Unlock()
	})

	cs := NewConfigServiceAt(filepath.Join(t.TempDir(), "config.toml"), bus)
	require.NoError(t, cs.Save(DefaultConfig()))

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, saved)
}
