package memory

import (
	"context"
	"sync"

	"github.com/aretw0/stateworks/pkg/ports"
)

// Store implements ports.DataStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]int64
	mu   sync.RWMutex
}

var _ ports.DataStore = (*Store)(nil)

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]int64),
	}
}

// Get returns the value of key, or zero if it was never written.
func (s *Store) Get(ctx context.Context, key string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[key], nil
}

// Add increments key by delta.
func (s *Store) Add(ctx context.Context, key string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] += delta
	return s.data[key], nil
}

// Set overwrites key.
func (s *Store) Set(ctx context.Context, key string, value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Keys returns the keys currently held.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}
