package espalier

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/arvholm/espalier/internal/registry"
	"github.com/arvholm/espalier/pkg/adapters/memory"
	"github.com/arvholm/espalier/pkg/definition"
	"github.com/arvholm/espalier/pkg/dfa"
	"github.com/arvholm/espalier/pkg/ports"
)

// Engine is the high-level entry point for the Espalier library.
// It wraps the internal registry and provides a simplified API for consumers.
type Engine struct {
	registry *registry.Registry
	store    ports.MachineStore
	loader   ports.DefinitionLoader
	logger   *slog.Logger
	warn     func(dfa.Warning)
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore injects a custom MachineStore, bypassing the default in-memory
// store.
func WithStore(s ports.MachineStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLoader injects a DefinitionLoader; Preload registers everything it
// provides.
func WithLoader(l ports.DefinitionLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithWarningHandler registers fn to observe the non-fatal diagnostics
// collected while machines compile.
func WithWarningHandler(fn func(dfa.Warning)) Option {
	return func(e *Engine) {
		e.warn = fn
	}
}

// New initializes a new Espalier Engine. By default machines are kept in
// memory; use WithStore for durable persistence.
func New(opts ...Option) *Engine {
	eng := &Engine{}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	// Ensure logger is initialized (so we don't pass nil to the registry,
	// which would overwrite its default)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	regOpts := []registry.Option{
		registry.WithLogger(eng.logger),
	}
	if eng.warn != nil {
		regOpts = append(regOpts, registry.WithWarningHandler(eng.warn))
	}
	eng.registry = registry.New(eng.store, regOpts...)

	return eng
}

// Register compiles def, persists it and makes it queryable under its name.
// The returned warnings are non-fatal diagnostics; they accompany both
// success and compile failure.
func (e *Engine) Register(ctx context.Context, def *definition.Definition) (*definition.Stored, []dfa.Warning, error) {
	return e.registry.Register(ctx, def)
}

// Machine returns the compiled machine registered under name.
func (e *Engine) Machine(ctx context.Context, name string) (*dfa.Machine, error) {
	return e.registry.Machine(ctx, name)
}

// Definition returns the stored record registered under name.
func (e *Engine) Definition(ctx context.Context, name string) (*definition.Stored, error) {
	return e.registry.Definition(ctx, name)
}

// List returns the registered machine names in lexical order.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.registry.List(ctx)
}

// Remove unregisters the named machine.
func (e *Engine) Remove(ctx context.Context, name string) error {
	return e.registry.Remove(ctx, name)
}

// Read runs the named machine over input and returns the state it ends in.
func (e *Engine) Read(ctx context.Context, name, input string) (dfa.State, error) {
	return e.registry.Read(ctx, name, input)
}

// Test reports whether the named machine accepts input.
func (e *Engine) Test(ctx context.Context, name, input string) (bool, error) {
	return e.registry.Test(ctx, name, input)
}

// Trace returns the states the named machine visits while scanning input,
// starting with the initial state.
func (e *Engine) Trace(ctx context.Context, name, input string) ([]dfa.State, error) {
	return e.registry.Trace(ctx, name, input)
}

// Preload registers every definition the configured loader provides and
// returns how many it registered. Returns an error if no loader was
// configured.
func (e *Engine) Preload(ctx context.Context) (int, error) {
	if e.loader == nil {
		return 0, fmt.Errorf("no loader configured; use WithLoader")
	}
	return e.registry.Preload(ctx, e.loader)
}

// Registry exposes the ports.Registry implementation, for transport
// adapters that are wired against the interface.
func (e *Engine) Registry() ports.Registry {
	return e.registry
}

// Store returns the underlying MachineStore used by the engine.
func (e *Engine) Store() ports.MachineStore {
	return e.store
}
