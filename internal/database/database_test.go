package database

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"snappick/internal/eventbus"
)

func makeSnapshot(t *testing.T, children ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, c := range children {
		require.NoError(t, os.Mkdir(filepath.Join(dir, c), 0755))
	}
	return dir
}

// collectWarnings subscribes to warning events and returns a race-safe reader
func collectWarnings(t *testing.T, bus eventbus.EventBus) func() []string {
	t.Helper()
	var mu sync.Mutex
	var messages []string
	bus.Subscribe(eventbus.EventWarning, func(e eventbus.DomainEvent) {
		if w, ok := e.(eventbus.WarningEvent); ok {
			mu.Lock()
			messages = append(messages, w.Message)
			mu.Unlock()
		}
	})
	return func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), messages...)
	}
}

func TestNewResolvesDatabaseDirectory(t *testing.T) {
	dir := makeSnapshot(t, "db-cpp", "src")
	bus := eventbus.New()
	warnings := collectWarnings(t, bus)

	d, err := New(dir, bus)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "db-cpp"), d.DatabasePath)
	require.Equal(t, filepath.Base(dir), d.DisplayName)
	require.Empty(t, warnings())

	require.Eventually(t, func() bool {
		src, done := d.SourceRoot()
		return done && src == filepath.Join(dir, "src")
	}, time.Second, 10*time.Millisecond)
}

func TestNewFailsWhenNoDatabaseDirectory(t *testing.T) {
	dir := makeSnapshot(t, "src", "notadb")

	_, err := New(dir, eventbus.New())
	require.Error(t, err)

	var notFound *NoDatabaseFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, dir, notFound.Dir)
	require.Contains(t, err.Error(), "doesn't appear to be a valid snapshot directory")
}

func TestNewPrefersLexicographicallyFirstMatch(t *testing.T) {
	dir := makeSnapshot(t, "db-java", "db-cpp")
	bus := eventbus.New()
	warnings := collectWarnings(t, bus)

	d, err := New(dir, bus)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "db-cpp"), d.DatabasePath)

	msgs := warnings()
	require.Len(t, msgs, 1)
	require.Contains(t, msgs[0], d.DatabasePath)
}

func TestSourceRootAbsent(t *testing.T) {
	dir := makeSnapshot(t, "db-cpp")

	d, err := New(dir, eventbus.New())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		src, done := d.SourceRoot()
		return done && src == ""
	}, time.Second, 10*time.Millisecond)
}

func TestSourceRootResolutionIsAnnounced(t *testing.T) {
	dir := makeSnapshot(t, "db-cpp", "src")
	bus := eventbus.New()

	var mu sync.Mutex
	var got *eventbus.SourceRootResolvedEvent
	bus.Subscribe(eventbus.EventSourceRootResolved, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.SourceRootResolvedEvent); ok {
			mu.Lock()
			got = &ev
			mu.Unlock()
		}
	})

	_, err := New(dir, bus)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got != nil
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, dir, got.SnapshotRoot)
	require.Equal(t, filepath.Join(dir, "src"), got.SourceRoot)
}

func TestNewIgnoresPrefixedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db-notes.txt"), []byte("x"), 0644))

	_, err := New(dir, eventbus.New())

	var notFound *NoDatabaseFoundError
	require.ErrorAs(t, err, &notFound)
}
