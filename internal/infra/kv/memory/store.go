// Package memory implements an in-memory key-value Store.
package memory

import (
	"context"
	"sync"

	"labnotebook/internal/kv/core"
)

// Store implements core.Store backed by process memory.
type Store struct {
	mu   sync.RWMutex
	objs map[string][]byte
	// FailSet, when non-nil, is returned by every Set. Tests use it to
	// simulate a rejected write.
	FailSet error
	// FailGet, when non-nil, is returned by every Get.
	FailGet error
	writes  int
}

// New returns an empty in-memory store.
func New() *Store { return &Store{objs: make(map[string][]byte)} }

// Driver returns the backend identifier.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Get returns a copy of the value at key.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailGet != nil {
		return nil, false, s.FailGet
	}
	v, ok := s.objs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a copy of value at key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSet != nil {
		return s.FailSet
	}
	s.objs[key] = append([]byte(nil), value...)
	s.writes++
	return nil
}

// Writes reports how many successful Set calls the store has seen.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
