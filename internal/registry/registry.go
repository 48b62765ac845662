package registry

import (
	"errors"
	"log"
	"sync"

	"snappick/internal/database"
	"snappick/internal/domain"
	"snappick/internal/eventbus"
)

// ErrNotRegistered is returned when SetCurrent is called with a database
// that is not a member of the registry
var ErrNotRegistered = errors.New("database is not registered")

// SelectedIcon marks the current database in the tree view
const SelectedIcon = "●"

// Registry holds the ordered list of known databases and the current
// selection. Items are deduplicated by resolved database path and are never
// removed; the list only grows within a session. Every committed mutation is
// announced on the event bus.
type Registry struct {
	mu      sync.RWMutex
	bus     eventbus.EventBus
	items   []*database.Database
	current *database.Database
}

// New creates a registry with its initial items and current selection,
// typically zero or one item restored from persisted state
func New(bus eventbus.EventBus, items []*database.Database, current *database.Database) *Registry {
	return &Registry{
		bus:     bus,
		items:   items,
		current: current,
	}
}

// Items returns the known databases in insertion order
func (r *Registry) Items() []*database.Database {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*database.Database, len(r.items))
	copy(out, r.items)
	return out
}

// Current returns the selected database, or nil when nothing is selected
func (r *Registry) Current() *database.Database {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// SetCurrent selects a database that is already a member of the registry
func (r *Registry) SetCurrent(d *database.Database) error {
	r.mu.Lock()
	if !r.containsLocked(d) {
		r.mu.Unlock()
		return ErrNotRegistered
	}
	r.current = d
	r.mu.Unlock()

	r.bus.Publish(eventbus.SelectionChangedEvent{})
	return nil
}

// Add registers a database without changing the current selection, used for
// scan results. Returns the existing entry when the database path is already
// known.
func (r *Registry) Add(d *database.Database) *database.Database {
	r.mu.Lock()
	if existing := r.findLocked(d.DatabasePath); existing != nil {
		r.mu.Unlock()
		return existing
	}
	r.items = append(r.items, d)
	r.mu.Unlock()

	r.bus.Publish(eventbus.DatabaseAddedEvent{DatabasePath: d.DatabasePath})
	return d
}

// SelectOrAdd selects the registry entry matching d's database path,
// appending d first when no entry matches. Two snapshot roots that resolve
// to the same database path are treated as the same database.
func (r *Registry) SelectOrAdd(d *database.Database) *database.Database {
	r.mu.Lock()
	entry := r.findLocked(d.DatabasePath)
	added := false
	if entry == nil {
		entry = d
		r.items = append(r.items, d)
		added = true
	}
	r.current = entry
	r.mu.Unlock()

	if added {
		r.bus.Publish(eventbus.DatabaseAddedEvent{DatabasePath: entry.DatabasePath})
	}
	r.bus.Publish(eventbus.SelectionChangedEvent{})
	return entry
}

// SelectOrAddByPath validates candidateRoot as a snapshot directory and
// selects it. On *database.NoDatabaseFoundError the failure is surfaced on
// the bus and the registry is left unchanged.
func (r *Registry) SelectOrAddByPath(candidateRoot string) (*database.Database, error) {
	d, err := database.New(candidateRoot, r.bus)
	if err != nil {
		var notFound *database.NoDatabaseFoundError
		if errors.As(err, &notFound) {
			r.bus.Publish(eventbus.ErrorEvent{Message: notFound.Error(), Err: err})
		} else {
			log.Printf("Failed to open snapshot %s: %v", candidateRoot, err)
		}
		return nil, err
	}
	return r.SelectOrAdd(d), nil
}

// TreeChildren returns the tree rows under parent. The tree is one level
// deep: a nil parent yields all databases in order, anything else has no
// children.
func (r *Registry) TreeChildren(parent *database.Database) []*database.Database {
	if parent != nil {
		return nil
	}
	return r.Items()
}

// DisplayInfo returns the tree-view representation of a database. The icon
// is set only for the item that is identity-equal to the current selection.
func (r *Registry) DisplayInfo(d *database.Database) domain.DisplayInfo {
	info := domain.DisplayInfo{
		Label:   d.DisplayName,
		Tooltip: d.SnapshotRoot,
	}
	if d == r.Current() {
		info.Icon = SelectedIcon
	}
	return info
}

func (r *Registry) containsLocked(d *database.Database) bool {
	for _, item := range r.items {
		if item == d {
			return true
		}
	}
	return false
}

func (r *Registry) findLocked(databasePath string) *database.Database {
	for _, item := range r.items {
		if item.DatabasePath == databasePath {
			return item
		}
	}
	return nil
}
