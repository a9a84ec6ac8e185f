// Package state holds the process-scoped relay state: the single current
// playback snapshot and the single current display configuration.
package state

import (
	"sync"

	v1alpha1 "github.com/showbridge/showbridge/api/types/v1alpha1"
)

// Store is the mutable cell owned by the relay handler. All reads and writes
// take the store mutex; serialization of the apply-then-broadcast sequence is
// the handler's responsibility.
type Store struct {
	mu       sync.Mutex
	snapshot v1alpha1.PlaybackSnapshot
	config   v1alpha1.DisplayConfig
}

// NewStore creates a store seeded with the waiting sentinel snapshot
func NewStore(cfg v1alpha1.DisplayConfig) *Store {
	return &Store{
		snapshot: v1alpha1.WaitingSnapshot(),
		config:   cfg,
	}
}

// Snapshot returns the current playback snapshot
func (s *Store) Snapshot() v1alpha1.PlaybackSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// SetSnapshot replaces the playback snapshot wholesale
func (s *Store) SetSnapshot(snap v1alpha1.PlaybackSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
}

// Config returns the current display configuration
func (s *Store) Config() v1alpha1.DisplayConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// SetConfig replaces the display configuration
func (s *Store) SetConfig(cfg v1alpha1.DisplayConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

// Current returns the snapshot and configuration as one consistent pair
func (s *Store) Current() (v1alpha1.PlaybackSnapshot, v1alpha1.DisplayConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot, s.config
}
