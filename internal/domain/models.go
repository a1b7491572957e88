package domain

import "fmt"

// KindType identifies the state of an installation record
type KindType string

const (
	KindDiscovered  KindType = "Discovered"
	KindDownloading KindType = "Downloading"
	KindInstalled   KindType = "Installed"
	KindFailed      KindType = "Failed"
)

// InstallationKind is the state a tracked version is in.
// Only Downloading uses Progress/Total and only Failed uses Reason.
type InstallationKind struct {
	Type     KindType
	Progress int
	Total    int
	Reason   string
}

// Discovered returns the kind for a version known to exist but not installed
func Discovered() InstallationKind {
	return InstallationKind{Type: KindDiscovered}
}

// Downloading returns the kind for an in-flight acquisition
func Downloading(progress, total int) InstallationKind {
	return InstallationKind{Type: KindDownloading, Progress: progress, Total: total}
}

// Installed returns the terminal success kind
func Installed() InstallationKind {
	return InstallationKind{Type: KindInstalled}
}

// Failed returns the terminal error kind
func Failed(reason string) InstallationKind {
	return InstallationKind{Type: KindFailed, Reason: reason}
}

func (k InstallationKind) String() string {
	switch k.Type {
	case KindDownloading:
		return fmt.Sprintf("Downloading %d/%d", k.Progress, k.Total)
	case KindFailed:
		if k.Reason != "" {
			return "Failed: " + k.Reason
		}
		return "Failed"
	default:
		return string(k.Type)
	}
}

// Installation is the authoritative record of a single tracked version
type Installation struct {
	Version GameVersion
	Kind    InstallationKind
}

// Author identifies who wrote a commit
type Author struct {
	Name  string
	Email string
	Date  string
}

// Commit is a single entry of the remote commit feed
type Commit struct {
	SHA     string
	Title   string // first line of Message
	Message string
	Author  Author
	URL     string
}
