package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"snappick/internal/eventbus"
)

// DirPrefix is the naming convention for database directories: a valid
// snapshot directory has at least one immediate child named with this prefix.
const DirPrefix = "db-"

// sourceDirName is the conventional source root under a snapshot directory
const sourceDirName = "src"

// NoDatabaseFoundError reports that a directory has no database subdirectory.
// Callers match it with errors.As to distinguish "not a snapshot directory"
// from other filesystem failures.
type NoDatabaseFoundError struct {
	Dir string
}

func (e *NoDatabaseFoundError) Error() string {
	return fmt.Sprintf("%s doesn't appear to be a valid snapshot directory.", e.Dir)
}

// Database is one validated snapshot selection. SnapshotRoot, DatabasePath
// and DisplayName are fixed at construction. The source root is resolved
// asynchronously; use SourceRoot to read it.
type Database struct {
	SnapshotRoot string // user-chosen snapshot directory
	DatabasePath string // resolved db-* child
	DisplayName  string // last path segment of SnapshotRoot

	mu         sync.Mutex
	sourceRoot string
	resolved   bool
}

// New validates snapshotRoot and constructs a Database. It fails with
// *NoDatabaseFoundError when no db-* child exists. When several exist the
// lexicographically first is chosen and a warning is published on the bus.
//
// The src existence check runs in the background; the returned Database is
// usable immediately but SourceRoot settles later (a SourceRootResolvedEvent
// is published once it does).
func New(snapshotRoot string, bus eventbus.EventBus) (*Database, error) {
	root, err := filepath.Abs(filepath.Clean(snapshotRoot))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", snapshotRoot, err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	// os.ReadDir returns entries sorted by name, so the first match is the
	// lexicographically smallest regardless of filesystem listing order.
	var matches []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), DirPrefix) {
			matches = append(matches, entry.Name())
		}
	}
	if len(matches) == 0 {
		return nil, &NoDatabaseFoundError{Dir: root}
	}

	d := &Database{
		SnapshotRoot: root,
		DatabasePath: filepath.Join(root, matches[0]),
		DisplayName:  filepath.Base(root),
	}

	if len(matches) > 1 && bus != nil {
		bus.Publish(eventbus.WarningEvent{
			Message: fmt.Sprintf("%s contains several database directories, using %s", root, d.DatabasePath),
		})
	}

	go d.resolveSourceRoot(bus)

	return d, nil
}

// SourceRoot returns the snapshot's source root and whether the background
// check has completed. An empty path with done=true means the snapshot has
// no src directory and source paths should be treated as absolute.
func (d *Database) SourceRoot() (path string, done bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sourceRoot, d.resolved
}

// resolveSourceRoot checks for a src directory under the snapshot root and
// publishes the outcome
func (d *Database) resolveSourceRoot(bus eventbus.EventBus) {
	src := filepath.Join(d.SnapshotRoot, sourceDirName)

	resolved := ""
	if info, err := os.Stat(src); err == nil && info.IsDir() {
		resolved = src
	}

	d.mu.Lock()
	d.sourceRoot = resolved
	d.resolved = true
	d.mu.Unlock()

	if bus != nil {
		bus.Publish(eventbus.SourceRootResolvedEvent{
			SnapshotRoot: d.SnapshotRoot,
			SourceRoot:   resolved,
		})
	}
}
