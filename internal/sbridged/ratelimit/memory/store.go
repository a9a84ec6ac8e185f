// Package memory implements rate limit storage in process memory. The relay
// is a single self-contained process, so counters never need to be shared.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/showbridge/showbridge/internal/sbridged/ratelimit"
)

type window struct {
	count int
	reset time.Time
}

// Store implements rate limit storage with per-key fixed windows
type Store struct {
	mu      sync.Mutex
	windows map[string]window
	now     func() time.Time
}

// NewStore creates a new in-memory rate limit store
func NewStore() *Store {
	return &Store{
		windows: make(map[string]window),
		now:     time.Now,
	}
}

// keyStr converts a LimitKey to a map key
func (s *Store) keyStr(key ratelimit.LimitKey) string {
	return fmt.Sprintf("rate:%s:%s", key.Type, key.RemoteIP)
}

// Increment attempts to increment a counter and returns current count
func (s *Store) Increment(ctx context.Context, key ratelimit.LimitKey, limit ratelimit.Limit) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := s.keyStr(key)
	now := s.now()

	w := s.windows[k]
	if w.reset.IsZero() || now.After(w.reset) {
		w = window{reset: now.Add(limit.Period)}
	}
	w.count++
	s.windows[k] = w

	if w.count > limit.Rate {
		return w.count, ratelimit.ErrLimitExceeded
	}
	return w.count, nil
}

// Reset clears a rate limit counter
func (s *Store) Reset(ctx context.Context, key ratelimit.LimitKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.windows, s.keyStr(key))
	return nil
}
