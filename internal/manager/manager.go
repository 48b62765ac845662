package manager

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"snappick/internal/config"
	"snappick/internal/database"
	"snappick/internal/eventbus"
	"snappick/internal/registry"
)

// Chooser presents a "select folder" dialog and returns the chosen path,
// or ok=false when the user cancels
type Chooser interface {
	ChooseFolder() (path string, ok bool)
}

// UnsupportedSchemeError reports a chosen path that is not on the local
// filesystem. Only local directories can be opened; this is a host contract
// violation rather than a user error, so it is raised outward instead of
// being surfaced and swallowed.
type UnsupportedSchemeError struct {
	Scheme string
}

func (e *UnsupportedSchemeError) Error() string {
	return fmt.Sprintf("unsupported URI scheme %q: only local directories can be opened", e.Scheme)
}

// Manager is the top-level facade over the registry: it restores the
// persisted selection at startup and writes it back on every change.
type Manager struct {
	bus   eventbus.EventBus
	store config.ConfigService
	cfg   *config.Config
	reg   *registry.Registry
}

// New builds a manager, restoring the persisted selection from
// cfg.CurrentSnapshot. When the persisted path no longer validates the error
// is surfaced, the persisted value is cleared and the registry starts empty.
func New(bus eventbus.EventBus, store config.ConfigService, cfg *config.Config) *Manager {
	m := &Manager{
		bus:   bus,
		store: store,
		cfg:   cfg,
	}

	var items []*database.Database
	var current *database.Database
	if cfg.CurrentSnapshot != "" {
		d, err := database.New(cfg.CurrentSnapshot, bus)
		switch {
		case err == nil:
			items = []*database.Database{d}
			current = d
		default:
			bus.Publish(eventbus.ErrorEvent{Message: err.Error(), Err: err})
			// Only a definitive "not a snapshot directory" clears the
			// persisted value; a transient filesystem failure (unmounted
			// drive) keeps it for the next session
			var notFound *database.NoDatabaseFoundError
			if errors.As(err, &notFound) {
				cfg.CurrentSnapshot = ""
				if err := store.Save(cfg); err != nil {
					log.Printf("Failed to clear persisted snapshot: %v", err)
				}
			}
		}
	}

	m.reg = registry.New(bus, items, current)
	return m
}

// Registry returns the selection registry, the data source for the tree view
func (m *Manager) Registry() *registry.Registry {
	return m.reg
}

// CurrentOrChoose returns the current database path without prompting when a
// selection exists, and otherwise prompts via the chooser. ok is false when
// nothing is selected and the user cancels.
func (m *Manager) CurrentOrChoose(ch Chooser) (dbPath string, ok bool, err error) {
	if cur := m.reg.Current(); cur != nil {
		return cur.DatabasePath, true, nil
	}
	return m.ChooseAndSet(ch)
}

// ChooseAndSet prompts for a snapshot directory, selects it and persists the
// choice. Cancellation returns ok=false with no mutation.
func (m *Manager) ChooseAndSet(ch Chooser) (dbPath string, ok bool, err error) {
	path, ok := ch.ChooseFolder()
	if !ok {
		return "", false, nil
	}
	d, err := m.SelectPath(path)
	if err != nil {
		return "", false, err
	}
	return d.DatabasePath, true, nil
}

// SelectPath validates and selects the given snapshot directory, persisting
// the new selection on success
func (m *Manager) SelectPath(raw string) (*database.Database, error) {
	path, err := localPath(raw)
	if err != nil {
		return nil, err
	}
	d, err := m.reg.SelectOrAddByPath(path)
	if err != nil {
		return nil, err
	}
	m.persist(d.SnapshotRoot)
	return d, nil
}

// SetCurrent selects an already-registered database and persists the choice
func (m *Manager) SetCurrent(d *database.Database) error {
	if err := m.reg.SetCurrent(d); err != nil {
		return err
	}
	m.persist(d.SnapshotRoot)
	return nil
}

func (m *Manager) persist(snapshotRoot string) {
	m.cfg.CurrentSnapshot = snapshotRoot
	if err := m.store.Save(m.cfg); err != nil {
		log.Printf("Failed to save config: %v", err)
	}
}

// localPath accepts plain filesystem paths and file:// URIs, rejecting every
// other scheme
func localPath(raw string) (string, error) {
	i := strings.Index(raw, "://")
	if i < 0 {
		return raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", &UnsupportedSchemeError{Scheme: raw[:i]}
	}
	if u.Scheme == "file" {
		return u.Path, nil
	}
	return "", &UnsupportedSchemeError{Scheme: u.Scheme}
}
