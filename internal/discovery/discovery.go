package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"stationhub/internal/domain"
	"stationhub/internal/eventbus"
)

// ErrScanInProgress is returned when a scan is started while one is running
var ErrScanInProgress = errors.New("scan already in progress")

// ActionSender queues installation actions
type ActionSender interface {
	Send(ctx context.Context, action domain.InstallationAction) error
}

// ReleaseSource lists versions published somewhere other than the builds directory
type ReleaseSource interface {
	Versions(ctx context.Context) ([]domain.GameVersion, error)
}

// Option configures a Scanner
type Option func(*Scanner)

// WithReleaseSource adds remote versions to every scan
func WithReleaseSource(src ReleaseSource) Option {
	return func(s *Scanner) {
		s.releases = src
	}
}

// Scanner finds game builds and announces every version newer than the
// last one it announced, naming the version it supersedes.
type Scanner struct {
	root     string
	sender   ActionSender
	bus      eventbus.EventBus
	releases ReleaseSource

	mu         sync.Mutex
	isScanning bool
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup

	// latestMu is separate from mu so StopScan can cancel a blocked send
	latestMu sync.Mutex
	latest   *domain.GameVersion
}

// NewScanner creates a scanner for the builds directory root. bus may be nil.
func NewScanner(root string, sender ActionSender, bus eventbus.EventBus, opts ...Option) *Scanner {
	s := &Scanner{
		root:   root,
		sender: sender,
		bus:    bus,
	}
	for _, opt := range opts {
		opt(s)
	}

	if bus != nil {
		bus.Subscribe(eventbus.EventScanRequested, func(eventbus.DomainEvent) {
			if err := s.Scan(context.Background()); err != nil {
				log.Printf("Requested scan not started: %v", err)
			}
		})
	}

	return s
}

// Scan runs one scan and blocks until it is done
func (s *Scanner) Scan(ctx context.Context) error {
	s.mu.Lock()
	if s.isScanning {
		s.mu.Unlock()
		return ErrScanInProgress
	}
	s.isScanning = true
	scanCtx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.isScanning = false
		s.cancelFunc = nil
		s.mu.Unlock()
		s.wg.Done()
	}()

	log.Printf("Scanning %s for builds", s.root)
	s.publish(eventbus.ScanStartedEvent{Root: s.root})

	versions := s.scanDirectory(scanCtx)
	if s.releases != nil {
		remote, err := s.releases.Versions(scanCtx)
		if err != nil {
			log.Printf("Error listing releases: %v", err)
			s.publish(eventbus.ErrorEvent{Message: "Failed to list releases", Err: err})
		}
		versions = append(versions, remote...)
	}
	versions = dedupe(versions)

	announced, err := s.announce(scanCtx, versions)
	s.publish(eventbus.ScanCompletedEvent{VersionsFound: len(versions), Announced: announced})
	if err != nil {
		return fmt.Errorf("announce versions: %w", err)
	}
	return nil
}

// StopScan cancels a running scan and waits for it
func (s *Scanner) StopScan() {
	s.mu.Lock()
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// announce sends VersionDiscovered for versions newer than the last
// announced one, oldest first, chaining each to its predecessor
func (s *Scanner) announce(ctx context.Context, versions []domain.GameVersion) (int, error) {
	s.latestMu.Lock()
	defer s.latestMu.Unlock()

	announced := 0
	for _, v := range versions {
		if s.latest != nil && !s.latest.Less(v) {
			continue
		}
		if err := s.sender.Send(ctx, domain.VersionDiscoveredAction{New: v, Old: s.latest}); err != nil {
			return announced, err
		}
		s.latest = domain.VersionRef(v)
		announced++
	}
	return announced, nil
}

// scanDirectory lists the build directories directly under root
func (s *Scanner) scanDirectory(ctx context.Context) []domain.GameVersion {
	var versions []domain.GameVersion
	if s.root == "" {
		return versions
	}

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			log.Printf("Error walking path %s: %v", path, err)
			if path == s.root {
				return err
			}
			return nil
		}

		if path == s.root || !d.IsDir() {
			return nil
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") {
			return fs.SkipDir
		}
		if v, ok := parseBuildDir(name); ok {
			versions = append(versions, v)
		}
		// builds are only one level deep
		return fs.SkipDir
	})

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Error scanning directory %s: %v", s.root, err)
		s.publish(eventbus.ErrorEvent{
			Message: fmt.Sprintf("Failed to scan %s", s.root),
			Err:     err,
		})
	}

	return versions
}

func (s *Scanner) publish(e eventbus.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

// parseBuildDir accepts "<version>" and "<prefix>-<version>" directory names
// where version is a semantic version.
func parseBuildDir(name string) (domain.GameVersion, bool) {
	candidate := name
	if _, ok := domain.GameVersion(candidate).Semver(); ok {
		return domain.GameVersion(candidate), true
	}
	if i := strings.LastIndex(name, "-"); i >= 0 {
		candidate = name[i+1:]
		if _, ok := domain.GameVersion(candidate).Semver(); ok {
			return domain.GameVersion(candidate), true
		}
	}
	return "", false
}

// dedupe sorts versions ascending and drops duplicates
func dedupe(versions []domain.GameVersion) []domain.GameVersion {
	sort.Slice(versions, func(i, j int) bool { return versions[i].Less(versions[j]) })
	out := make([]domain.GameVersion, 0, len(versions))
	for _, v := range versions {
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	return out
}

// StaticReleases is a fixed list of published versions
type StaticReleases []domain.GameVersion

func (r StaticReleases) Versions(context.Context) ([]domain.GameVersion, error) {
	out := make([]domain.GameVersion, len(r))
	copy(out, r)
	return out, nil
}
