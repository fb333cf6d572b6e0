package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/arvholm/espalier/pkg/definition"
)

// Store implements ports.MachineStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*definition.Stored
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*definition.Stored),
	}
}

// Save persists the definition in memory under its name.
func (s *Store) Save(ctx context.Context, def *definition.Definition) (*definition.Stored, error) {
	if def.Name == "" {
		return nil, definition.ErrUnnamed
	}
	// Deep copy to ensure isolation, similar to serialization.
	stored := definition.NewStored(def.Clone())

	s.mu.Lock()
	s.data[def.Name] = stored
	s.mu.Unlock()

	return cloneStored(stored), nil
}

// Load retrieves the stored record from memory.
func (s *Store) Load(ctx context.Context, name string) (*definition.Stored, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.data[name]
	if !ok {
		return nil, definition.ErrNotFound
	}
	// Copy on read so the caller can't mutate store state through the
	// pointer.
	return cloneStored(stored), nil
}

// Delete removes the record stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[name]; !ok {
		return definition.ErrNotFound
	}
	delete(s.data, name)
	return nil
}

// List returns the stored names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}

func cloneStored(stored *definition.Stored) *definition.Stored {
	out := *stored
	out.Definition = *out.Definition.Clone()
	return &out
}
