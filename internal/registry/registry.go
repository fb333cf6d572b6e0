// Package registry keeps compiled machines cached behind a MachineStore.
//
// The registry is what transport adapters talk to: it compiles definitions
// on register, persists them through the configured store and hands out the
// compiled machines for queries. Machines are cached per store revision, so
// replacing a definition recompiles it while repeated queries reuse the
// same machine.
package registry

import (
	"context"
	"log/slog"
	"sync"

	"github.com/arvholm/espalier/internal/logging"
	"github.com/arvholm/espalier/pkg/definition"
	"github.com/arvholm/espalier/pkg/dfa"
	"github.com/arvholm/espalier/pkg/ports"
)

var _ ports.Registry = (*Registry)(nil)

// Registry implements ports.Registry on top of a MachineStore.
type Registry struct {
	store  ports.MachineStore
	logger *slog.Logger
	warn   func(dfa.Warning)

	mu    sync.RWMutex
	cache map[string]cached
}

type cached struct {
	machine  *dfa.Machine
	revision string
}

// Option configures the registry.
type Option func(*Registry)

// WithLogger sets a structured logger for registry events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithWarningHandler forwards compile warnings to fn, in addition to
// returning them from Register.
func WithWarningHandler(fn func(dfa.Warning)) Option {
	return func(r *Registry) {
		r.warn = fn
	}
}

// New creates a registry backed by store.
func New(store ports.MachineStore, opts ...Option) *Registry {
	r := &Registry{
		store: store,
		cache: make(map[string]cached),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	return r
}

// compile builds the definition's machine, collecting warnings and
// forwarding them to the registry handler.
func (r *Registry) compile(def *definition.Definition) (*dfa.Machine, []dfa.Warning, error) {
	var warnings []dfa.Warning
	machine, err := def.Compile(dfa.WithWarningHandler(func(w dfa.Warning) {
		warnings = append(warnings, w)
		if r.warn != nil {
			r.warn(w)
		}
	}))
	return machine, warnings, err
}

// Register compiles def, persists it and caches the machine. Warnings are
// returned even when compilation fails.
func (r *Registry) Register(ctx context.Context, def *definition.Definition) (*definition.Stored, []dfa.Warning, error) {
	machine, warnings, err := r.compile(def)
	if err != nil {
		r.logger.Warn("machine rejected", "name", def.Name, "error", err)
		return nil, warnings, err
	}

	stored, err := r.store.Save(ctx, def)
	if err != nil {
		return nil, warnings, err
	}

	r.mu.Lock()
	r.cache[def.Name] = cached{machine: machine, revision: stored.Revision}
	r.mu.Unlock()

	r.logger.Info("machine registered",
		"name", def.Name,
		"revision", stored.Revision,
		"states", len(machine.States()),
		"warnings", len(warnings),
	)
	return stored, warnings, nil
}

// Machine returns the compiled machine registered under name, compiling it
// if the cached copy is missing or belongs to an older revision.
func (r *Registry) Machine(ctx context.Context, name string) (*dfa.Machine, error) {
	stored, err := r.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	hit, ok := r.cache[name]
	r.mu.RUnlock()
	if ok && hit.revision == stored.Revision {
		return hit.machine, nil
	}

	machine, _, err := r.compile(&stored.Definition)
	if err != nil {
		r.logger.Warn("stored machine no longer compiles", "name", name, "error", err)
		return nil, err
	}

	r.mu.Lock()
	r.cache[name] = cached{machine: machine, revision: stored.Revision}
	r.mu.Unlock()

	r.logger.Debug("machine compiled", "name", name, "revision", stored.Revision)
	return machine, nil
}

// Definition returns the stored record registered under name.
func (r *Registry) Definition(ctx context.Context, name string) (*definition.Stored, error) {
	return r.store.Load(ctx, name)
}

// List returns the registered names in lexical order.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	return r.store.List(ctx)
}

// Remove unregisters name and evicts its cached machine.
func (r *Registry) Remove(ctx context.Context, name string) error {
	if err := r.store.Delete(ctx, name); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.cache, name)
	r.mu.Unlock()

	r.logger.Info("machine removed", "name", name)
	return nil
}

// Read runs the named machine over input and returns the final state.
func (r *Registry) Read(ctx context.Context, name, input string) (dfa.State, error) {
	m, err := r.Machine(ctx, name)
	if err != nil {
		return "", err
	}
	return m.Read(input)
}

// Test reports whether the named machine accepts input.
func (r *Registry) Test(ctx context.Context, name, input string) (bool, error) {
	m, err := r.Machine(ctx, name)
	if err != nil {
		return false, err
	}
	return m.Test(input), nil
}

// Trace returns the states the named machine visits while scanning input.
func (r *Registry) Trace(ctx context.Context, name, input string) ([]dfa.State, error) {
	m, err := r.Machine(ctx, name)
	if err != nil {
		return nil, err
	}
	return m.Trace(input)
}

// Preload registers every definition the loader knows about. It returns the
// number of definitions registered; on error the registry keeps whatever was
// registered before the failure.
func (r *Registry) Preload(ctx context.Context, loader ports.DefinitionLoader) (int, error) {
	names, err := loader.List(ctx)
	if err != nil {
		return 0, err
	}

	for i, name := range names {
		def, err := loader.Get(ctx, name)
		if err != nil {
			return i, err
		}
		if _, _, err := r.Register(ctx, def); err != nil {
			return i, err
		}
	}
	return len(names), nil
}
