package cache

import (
	"context"
	"sync"
	"time"

	"github.com/creditline/backend/internal/domain/shared"
)

const defaultSweepInterval = 5 * time.Minute

// InMemoryIdempotencyStore keeps claims in a process-local map. Claims are
// not shared between replicas, so it suits single-instance deployments and
// tests. Expired claims are swept periodically.
type InMemoryIdempotencyStore struct {
	mu       sync.RWMutex
	deadline map[string]time.Time
	now      func() time.Time

	stop    context.CancelFunc
	stopped sync.WaitGroup
}

// NewInMemoryIdempotencyStore starts a store that sweeps expired keys in the
// background until Close
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return newInMemoryIdempotencyStore(time.Now, defaultSweepInterval)
}

func newInMemoryIdempotencyStore(now func() time.Time, sweepEvery time.Duration) *InMemoryIdempotencyStore {
	ctx, cancel := context.WithCancel(context.Background())
	s := &InMemoryIdempotencyStore{
		deadline: make(map[string]time.Time),
		now:      now,
		stop:     cancel,
	}
	s.stopped.Go(func() { s.sweepUntil(ctx, sweepEvery) })
	return s
}

func (s *InMemoryIdempotencyStore) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if until, ok := s.deadline[key]; ok && now.Before(until) {
		return false, nil
	}
	s.deadline[key] = now.Add(ttl)
	return true, nil
}

func (s *InMemoryIdempotencyStore) Held(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	until, ok := s.deadline[key]
	s.mu.RUnlock()
	return ok && s.now().Before(until), nil
}

func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.deadline, key)
	s.mu.Unlock()
	return nil
}

// Close stops the sweeper. Calling it again is a no-op.
func (s *InMemoryIdempotencyStore) Close() error {
	s.stop()
	s.stopped.Wait()
	return nil
}

func (s *InMemoryIdempotencyStore) sweepUntil(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep drops every expired claim
func (s *InMemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, until := range s.deadline {
		if !now.Before(until) {
			delete(s.deadline, key)
		}
	}
}

// Size counts stored claims, expired ones included
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.deadline)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
