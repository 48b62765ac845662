package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventDatabaseDiscovered EventType = "DatabaseDiscovered"
	EventDatabaseAdded      EventType = "DatabaseAdded"
	EventSelectionChanged   EventType = "SelectionChanged"
	EventSourceRootResolved EventType = "SourceRootResolved"
	EventWarning            EventType = "Warning"
	EventError              EventType = "Error"
	EventScanStarted        EventType = "ScanStarted"
	EventScanCompleted      EventType = "ScanCompleted"
	EventScanRequested      EventType = "ScanRequested"
	EventConfigLoaded       EventType = "ConfigLoaded"
	EventConfigSaved        EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// DatabaseDiscoveredEvent is emitted when a scan finds a snapshot directory
type DatabaseDiscoveredEvent struct {
	SnapshotRoot string
}

func (e DatabaseDiscoveredEvent) Type() EventType { return EventDatabaseDiscovered }

// DatabaseAddedEvent is emitted when a database joins the registry
type DatabaseAddedEvent struct {
	DatabasePath string
}

func (e DatabaseAddedEvent) Type() EventType { return EventDatabaseAdded }

// SelectionChangedEvent is emitted when the current database changes.
// It carries no payload; subscribers re-query the registry.
type SelectionChangedEvent struct{}

func (e SelectionChangedEvent) Type() EventType { return EventSelectionChanged }

// SourceRootResolvedEvent is emitted when a database's src check settles.
// SourceRoot is empty when the snapshot has no src directory.
type SourceRootResolvedEvent struct {
	SnapshotRoot string
	SourceRoot   string
}

func (e SourceRootResolvedEvent) Type() EventType { return EventSourceRootResolved }

// WarningEvent is emitted for non-fatal, user-visible conditions
type WarningEvent struct {
	Message string
}

func (e WarningEvent) Type() EventType { return EventWarning }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ScanStartedEvent is emitted when snapshot scanning begins
type ScanStartedEvent struct {
	Paths []string
}

func (e ScanStartedEvent) Type() EventType { return EventScanStarted }

// ScanCompletedEvent is emitted when snapshot scanning completes
type ScanCompletedEvent struct {
	DatabasesFound int
}

func (e ScanCompletedEvent) Type() EventType { return EventScanCompleted }

// ScanRequestedEvent is emitted to request a new scan
type ScanRequestedEvent struct {
	Paths []string
}

func (e ScanRequestedEvent) Type() EventType { return EventScanRequested }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	BaseDir         string
	CurrentSnapshot string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
