package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventInstallationsChanged EventType = "InstallationsChanged"
	EventCommitsLoaded        EventType = "CommitsLoaded"
	EventScanStarted          EventType = "ScanStarted"
	EventScanCompleted        EventType = "ScanCompleted"
	EventScanRequested        EventType = "ScanRequested"
	EventError                EventType = "Error"
	EventConfigLoaded         EventType = "ConfigLoaded"
	EventConfigSaved          EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// InstallationsChangedEvent is emitted after an action changed the installation map
type InstallationsChangedEvent struct {
	Action ActionType
	Count  int
}

func (e InstallationsChangedEvent) Type() EventType { return EventInstallationsChanged }

// CommitsLoadedEvent is emitted when the commit feed was fetched successfully
type CommitsLoadedEvent struct {
	Added int
	Total int
}

func (e CommitsLoadedEvent) Type() EventType { return EventCommitsLoaded }

// ScanStartedEvent is emitted when a version scan begins
type ScanStartedEvent struct {
	Root string
}

func (e ScanStartedEvent) Type() EventType { return EventScanStarted }

// ScanCompletedEvent is emitted when a version scan completes
type ScanCompletedEvent struct {
	VersionsFound int
	Announced     int
}

func (e ScanCompletedEvent) Type() EventType { return EventScanCompleted }

// ScanRequestedEvent is emitted to request a new scan
type ScanRequestedEvent struct{}

func (e ScanRequestedEvent) Type() EventType { return EventScanRequested }

// ErrorEvent is emitted when a background operation fails
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
