// Package memory provides in-memory implementations of the espalier ports,
// used as the default backend and as a fixture in tests.
package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/arvholm/espalier/pkg/definition"
)

// Loader implements ports.DefinitionLoader using an in-memory map.
type Loader struct {
	defs map[string]*definition.Definition
}

// NewLoader creates a loader from definitions indexed by name. Every
// definition must carry a name; this improves DX for tests, where fixtures
// are built inline.
func NewLoader(defs ...*definition.Definition) (*Loader, error) {
	data := make(map[string]*definition.Definition, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("memory loader: %w", definition.ErrUnnamed)
		}
		data[def.Name] = def.Clone()
	}
	return &Loader{defs: data}, nil
}

// Get retrieves the definition declared under name.
func (l *Loader) Get(ctx context.Context, name string) (*definition.Definition, error) {
	def, ok := l.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", definition.ErrNotFound, name)
	}
	return def.Clone(), nil
}

// List returns all available definition names.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(l.defs))
	for name := range l.defs {
		names = append(names, name)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}
