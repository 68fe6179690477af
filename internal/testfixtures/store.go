package testfixtures

import (
	"context"
	"sync"

	"github.com/example/classbot/internal/persistence"
)

// MemoryStore is an in-memory persistence.Store for tests. It records the
// number of saves and can simulate storage failures.
type MemoryStore struct {
	mu      sync.Mutex
	state   persistence.State
	saves   int
	saveErr error
	loadErr error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// FailSaves makes subsequent Save calls return err.
func (s *MemoryStore) FailSaves(err error) {
	s.mu.Lock()
	s.saveErr = err
	s.mu.Unlock()
}

// FailLoads makes subsequent Load calls return err.
func (s *MemoryStore) FailLoads(err error) {
	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()
}

// Seed replaces the stored state directly.
func (s *MemoryStore) Seed(state persistence.State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Load implements persistence.Store.
func (s *MemoryStore) Load(context.Context) (persistence.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return persistence.State{}, s.loadErr
	}
	return s.state, nil
}

// Save implements persistence.Store.
func (s *MemoryStore) Save(_ context.Context, state persistence.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.state = state
	s.saves++
	return nil
}

// Close implements persistence.Store.
func (s *MemoryStore) Close() error { return nil }

// Saves returns the number of successful Save calls.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// State returns a copy of the last saved state.
func (s *MemoryStore) State() persistence.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
