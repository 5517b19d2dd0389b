package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tendant/simple-media/pkg/simplemedia/configsync"
)

// Store is an in-memory configsync.Store
type Store struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// New creates a new in-memory store
func New() *Store {
	return &Store{entries: make(map[string][]byte)}
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.entries[name]
	if !ok {
		return nil, configsync.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *Store) Write(ctx context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[name] = append([]byte(nil), data...)
	return nil
}
