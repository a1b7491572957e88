package domain

import "fmt"

// ActionType represents the type of an installation action
type ActionType string

// Action types
const (
	ActionVersionDiscovered ActionType = "VersionDiscovered"
	ActionInstall           ActionType = "Install"
	ActionDownloadProgress  ActionType = "DownloadProgress"
	ActionInstallFinished   ActionType = "InstallFinished"
	ActionInstallFailed     ActionType = "InstallFailed"
)

// InstallationAction is a requested mutation of the installation map.
// Implementations the installation actor does not know are ignored.
type InstallationAction interface {
	Type() ActionType
}

// VersionDiscoveredAction announces a version found during a scan.
// Old, when set, is the version New supersedes.
type VersionDiscoveredAction struct {
	New GameVersion
	Old *GameVersion
}

func (a VersionDiscoveredAction) Type() ActionType { return ActionVersionDiscovered }

func (a VersionDiscoveredAction) String() string {
	if a.Old == nil {
		return fmt.Sprintf("{New:%s Old:<nil>}", a.New)
	}
	return fmt.Sprintf("{New:%s Old:%s}", a.New, *a.Old)
}

// InstallAction requests installation of a version
type InstallAction struct {
	Version GameVersion
}

func (a InstallAction) Type() ActionType { return ActionInstall }

// DownloadProgressAction reports download progress for a version
type DownloadProgressAction struct {
	Version  GameVersion
	Progress int
}

func (a DownloadProgressAction) Type() ActionType { return ActionDownloadProgress }

// InstallFinishedAction marks a download as installed
type InstallFinishedAction struct {
	Version GameVersion
}

func (a InstallFinishedAction) Type() ActionType { return ActionInstallFinished }

// InstallFailedAction marks a download as failed
type InstallFailedAction struct {
	Version GameVersion
	Reason  string
}

func (a InstallFailedAction) Type() ActionType { return ActionInstallFailed }

// VersionRef returns a pointer to v, for use as VersionDiscoveredAction.Old
func VersionRef(v GameVersion) *GameVersion {
	return &v
}
