package raven

import (
	"context"
	"sync"
	"time"

	"github.com/NotCoffee418/raven_usb/pkg/types"
)

// readingStore holds the latest reading of every kind with its freshness
// flag and the single pending event. The read loop is the only writer of
// readings; callers only clear flags.
type readingStore struct {
	mu       sync.Mutex
	readings [types.KindCount]types.Reading
	fresh    [types.KindCount]bool
	pending  types.ReadingKind
	// Closed and replaced on every publish.
	changed chan struct{}
}

func newReadingStore() *readingStore {
	return &readingStore{changed: make(chan struct{})}
}

// publish replaces the reading of its kind, marks it fresh and makes it the
// pending event, overwriting any event nobody consumed yet.
func (s *readingStore) publish(reading types.Reading) {
	kind := reading.Kind()

	s.mu.Lock()
	s.readings[kind] = reading
	s.fresh[kind] = true
	s.pending = kind
	old := s.changed
	s.changed = make(chan struct{})
	s.mu.Unlock()

	close(old)
}

func (s *readingStore) clearFresh(kind types.ReadingKind) {
	s.mu.Lock()
	s.fresh[kind] = false
	s.mu.Unlock()
}

// latest returns the last reading of the kind without touching any flag.
func (s *readingStore) latest(kind types.ReadingKind) types.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readings[kind]
}

// waitUntilFresh blocks until the kind is marked fresh, the timeout passes
// or ctx is done. A timeout of zero or less waits only on ctx.
// Passing types.KindNone waits for any pending event instead and consumes it.
func (s *readingStore) waitUntilFresh(ctx context.Context, kind types.ReadingKind, timeout time.Duration) (types.Reading, error) {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	for {
		s.mu.Lock()
		if reading, ok := s.takeLocked(kind); ok {
			s.mu.Unlock()
			return reading, nil
		}
		changed := s.changed
		s.mu.Unlock()

		select {
		case <-changed:
		case <-expired:
			return nil, ErrTimeout
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (s *readingStore) takeLocked(kind types.ReadingKind) (types.Reading, bool) {
	if kind == types.KindNone {
		if s.pending == types.KindNone {
			return nil, false
		}
		reading := s.readings[s.pending]
		s.pending = types.KindNone
		return reading, true
	}
	if !s.fresh[kind] {
		return nil, false
	}
	return s.readings[kind], true
}
