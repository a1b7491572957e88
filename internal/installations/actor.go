package installations

import (
	"context"
	"log"
	"sort"
	"sync"

	"stationhub/internal/domain"
	"stationhub/internal/eventbus"
)

// Initial values of a fresh download tracker
const (
	InitialProgress = 1
	DownloadTotal   = 100
)

// Option configures an Actor
type Option func(*Actor)

// WithQueueSize bounds the number of queued, unapplied actions
func WithQueueSize(size int) Option {
	return func(a *Actor) {
		a.queueSize = size
	}
}

// WithEventBus publishes InstallationsChangedEvent after every change
func WithEventBus(bus eventbus.EventBus) Option {
	return func(a *Actor) {
		a.bus = bus
	}
}

// Actor owns the installation map. The queue is the only way to change it;
// readers use Count, Get and Snapshot.
type Actor struct {
	mu    sync.RWMutex
	items map[domain.GameVersion]domain.Installation

	queueSize int
	queue     *queue
	bus       eventbus.EventBus
	done      chan struct{}
}

// New creates an actor and the first Sender of its queue. Nothing is
// applied until Run or Start is called.
func New(opts ...Option) (*Actor, *Sender) {
	a := &Actor{
		items:     make(map[domain.GameVersion]domain.Installation),
		queueSize: defaultQueueSize,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.queue = newQueue(a.queueSize)

	return a, &Sender{q: a.queue}
}

// Start runs the apply loop in its own goroutine
func (a *Actor) Start(ctx context.Context) {
	go a.Run(ctx)
}

// Done is closed when the apply loop has exited
func (a *Actor) Done() <-chan struct{} {
	return a.done
}

// Run applies queued actions one at a time until every Sender is closed or
// ctx is cancelled. Actions queued before the last Sender closed are still
// applied.
func (a *Actor) Run(ctx context.Context) {
	defer close(a.done)

	for {
		select {
		case action, ok := <-a.queue.ch:
			if !ok {
				log.Printf("installations: queue closed, stopping")
				return
			}
			a.apply(action)
		case <-ctx.Done():
			log.Printf("installations: stopping: %v", ctx.Err())
			return
		}
	}
}

// apply runs a single action under the write lock
func (a *Actor) apply(action domain.InstallationAction) {
	log.Printf("installations: action %s: %v", action.Type(), action)

	a.mu.Lock()
	changed := false
	switch act := action.(type) {
	case domain.VersionDiscoveredAction:
		changed = a.versionDiscovered(act)
	case domain.InstallAction:
		changed = a.install(act)
	case domain.DownloadProgressAction:
		changed = a.downloadProgress(act)
	case domain.InstallFinishedAction:
		changed = a.finish(act.Version, domain.Installed())
	case domain.InstallFailedAction:
		changed = a.finish(act.Version, domain.Failed(act.Reason))
	default:
		log.Printf("installations: ignoring unsupported action %s", action.Type())
	}
	count := len(a.items)
	a.mu.Unlock()

	if changed && a.bus != nil {
		a.bus.Publish(domain.InstallationsChangedEvent{Action: action.Type(), Count: count})
	}
}

func (a *Actor) versionDiscovered(act domain.VersionDiscoveredAction) bool {
	if act.Old != nil && *act.Old == act.New {
		log.Printf("installations: %s replaces itself, ignoring", act.New)
		return false
	}

	if act.Old != nil {
		existing, ok := a.items[*act.Old]
		switch {
		case !ok:
			log.Printf("installations: replaced version %s is not tracked", *act.Old)
		case existing.Kind.Type == domain.KindDiscovered:
			delete(a.items, *act.Old)
		default:
			// in-progress and finished records are never replaced
			log.Printf("installations: keeping %s (%s) alongside %s", *act.Old, existing.Kind, act.New)
		}
	}

	a.items[act.New] = domain.Installation{
		Version: act.New,
		Kind:    domain.Discovered(),
	}
	return true
}

func (a *Actor) install(act domain.InstallAction) bool {
	log.Printf("installations: installing %s", act.Version)

	a.items[act.Version] = domain.Installation{
		Version: act.Version,
		Kind:    domain.Downloading(InitialProgress, DownloadTotal),
	}
	return true
}

func (a *Actor) downloadProgress(act domain.DownloadProgressAction) bool {
	existing, ok := a.items[act.Version]
	if !ok || existing.Kind.Type != domain.KindDownloading {
		log.Printf("installations: progress for %s which is not downloading", act.Version)
		return false
	}

	progress := act.Progress
	if progress < existing.Kind.Progress {
		progress = existing.Kind.Progress
	}
	if progress > existing.Kind.Total {
		progress = existing.Kind.Total
	}
	if progress == existing.Kind.Progress {
		return false
	}

	existing.Kind.Progress = progress
	a.items[act.Version] = existing
	return true
}

func (a *Actor) finish(version domain.GameVersion, kind domain.InstallationKind) bool {
	existing, ok := a.items[version]
	if !ok || existing.Kind.Type != domain.KindDownloading {
		log.Printf("installations: cannot mark %s as %s, it is not downloading", version, kind.Type)
		return false
	}

	a.items[version] = domain.Installation{Version: version, Kind: kind}
	return true
}

// Count returns the number of tracked versions. The value is stale as soon
// as it is returned.
func (a *Actor) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.items)
}

// Get returns the record for a version
func (a *Actor) Get(version domain.GameVersion) (domain.Installation, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	inst, ok := a.items[version]
	return inst, ok
}

// Snapshot returns a copy of all records, newest version first
func (a *Actor) Snapshot() []domain.Installation {
	a.mu.RLock()
	result := make([]domain.Installation, 0, len(a.items))
	for _, inst := range a.items {
		result = append(result, inst)
	}
	a.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[j].Version.Less(result[i].Version)
	})
	return result
}
