package installations

import (
	"context"
	"errors"
	"sync"

	"stationhub/internal/domain"
)

// ErrQueueClosed is returned when sending through a closed Sender
var ErrQueueClosed = errors.New("installation queue closed")

const defaultQueueSize = 1024

// queue is the channel shared by every Sender clone. It is closed when the
// last clone is closed.
type queue struct {
	mu     sync.RWMutex
	ch     chan domain.InstallationAction
	refs   int
	closed bool
}

func newQueue(size int) *queue {
	if size <= 0 {
		size = defaultQueueSize
	}
	return &queue{
		ch:   make(chan domain.InstallationAction, size),
		refs: 1,
	}
}

func (q *queue) acquire() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.refs++
	return true
}

func (q *queue) release() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.refs--
	if q.refs == 0 {
		q.closed = true
		close(q.ch)
	}
}

// Sender is the write handle of the installation queue. Every holder gets
// its own clone and closes it when done; the actor stops once all clones
// are closed.
type Sender struct {
	q    *queue
	once sync.Once
	done bool
	mu   sync.Mutex
}

// Clone returns a new handle on the same queue
func (s *Sender) Clone() *Sender {
	s.mu.Lock()
	closed := s.done
	s.mu.Unlock()
	if closed || !s.q.acquire() {
		return &Sender{q: s.q, done: true}
	}
	return &Sender{q: s.q}
}

// Send enqueues an action. It blocks while the queue is full and returns
// ctx.Err() if the context ends first.
func (s *Sender) Send(ctx context.Context, action domain.InstallationAction) error {
	s.mu.Lock()
	closed := s.done
	s.mu.Unlock()
	if closed {
		return ErrQueueClosed
	}

	// the read lock keeps the channel open until the send completes
	s.q.mu.RLock()
	defer s.q.mu.RUnlock()
	if s.q.closed {
		return ErrQueueClosed
	}

	select {
	case s.q.ch <- action:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases this handle. Further sends through it fail.
func (s *Sender) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		wasDone := s.done
		s.done = true
		s.mu.Unlock()
		if !wasDone {
			s.q.release()
		}
	})
}
