// Package file loads machine definitions from a directory of YAML or JSON
// documents.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/arvholm/espalier/pkg/definition"
)

// Loader implements ports.DefinitionLoader over a directory. Every file
// with a .yaml, .yml or .json extension is indexed by the name declared
// inside the document, not by its filename.
type Loader struct {
	dir string

	mu    sync.RWMutex
	index map[string]string // definition name -> file path
}

// NewLoader scans dir and indexes every definition document in it. It
// fails fast on documents that do not decode and on duplicate names, so a
// broken directory is caught at startup rather than on first use.
func NewLoader(dir string) (*Loader, error) {
	l := &Loader{dir: dir}
	if err := l.Reload(context.Background()); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload rescans the directory, replacing the index.
func (l *Loader) Reload(ctx context.Context) error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("read definition directory: %w", err)
	}

	index := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !isDefinitionFile(entry.Name()) {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		def, err := definition.DecodeFile(path)
		if err != nil {
			return err
		}
		if def.Name == "" {
			return fmt.Errorf("%s: %w", path, definition.ErrUnnamed)
		}
		if prev, dup := index[def.Name]; dup {
			return fmt.Errorf("definition %q declared in both %s and %s", def.Name, prev, path)
		}
		index[def.Name] = path
	}

	l.mu.Lock()
	l.index = index
	l.mu.Unlock()
	return nil
}

// Get retrieves the definition declared under name, reading the backing
// file so edits between calls are picked up.
func (l *Loader) Get(ctx context.Context, name string) (*definition.Definition, error) {
	l.mu.RLock()
	path, ok := l.index[name]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", definition.ErrNotFound, name)
	}
	return definition.DecodeFile(path)
}

// List returns all indexed definition names.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.index))
	for name := range l.index {
		names = append(names, name)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}

func isDefinitionFile(name string) bool {
	switch filepath.Ext(name) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
