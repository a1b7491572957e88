package commits

import (
	"context"
	"log"
	"sync"

	"stationhub/internal/domain"
	"stationhub/internal/eventbus"
)

// Fetcher returns the current commit feed
type Fetcher interface {
	FetchCommits(ctx context.Context) ([]domain.Commit, error)
}

// Store holds the commits loaded so far, in feed order
type Store struct {
	mu      sync.RWMutex
	items   []domain.Commit
	fetcher Fetcher
	bus     eventbus.EventBus
}

// NewStore creates an empty store. bus may be nil.
func NewStore(fetcher Fetcher, bus eventbus.EventBus) *Store {
	return &Store{
		fetcher: fetcher,
		bus:     bus,
	}
}

// Load fetches the feed once and appends the result. Any error is logged
// and leaves the loaded commits as they were.
func (s *Store) Load(ctx context.Context) {
	fetched, err := s.fetcher.FetchCommits(ctx)
	if err != nil {
		log.Printf("Error loading commits: %v", err)
		if s.bus != nil {
			s.bus.Publish(eventbus.ErrorEvent{Message: "Failed to load commits", Err: err})
		}
		return
	}

	s.mu.Lock()
	s.items = append(s.items, fetched...)
	total := len(s.items)
	s.mu.Unlock()

	log.Printf("Loaded %d commits", len(fetched))
	if s.bus != nil {
		s.bus.Publish(eventbus.CommitsLoadedEvent{Added: len(fetched), Total: total})
	}
}

// Count returns the number of loaded commits
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Items returns a copy of the loaded commits
func (s *Store) Items() []domain.Commit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Commit, len(s.items))
	copy(result, s.items)
	return result
}

// At returns the commit at index i
func (s *Store) At(i int) (domain.Commit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.items) {
		return domain.Commit{}, false
	}
	return s.items[i], true
}
