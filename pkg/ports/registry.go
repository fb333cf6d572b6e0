package ports

import (
	"context"

	"github.com/arvholm/espalier/pkg/definition"
	"github.com/arvholm/espalier/pkg/dfa"
)

// Registry is the engine surface that transport adapters (HTTP, MCP) drive.
// Implementations compile definitions on demand and keep the compiled
// machines cached; all methods are safe for concurrent use.
type Registry interface {
	// Register compiles def, persists it and caches the machine. The
	// returned warnings are the non-fatal diagnostics collected during
	// compilation; they are returned even when compilation fails, so
	// callers can report both.
	Register(ctx context.Context, def *definition.Definition) (*definition.Stored, []dfa.Warning, error)

	// Machine returns the compiled machine registered under name.
	// Returns definition.ErrNotFound if the name is unknown.
	Machine(ctx context.Context, name string) (*dfa.Machine, error)

	// Definition returns the stored record registered under name.
	Definition(ctx context.Context, name string) (*definition.Stored, error)

	// List returns the registered names in lexical order.
	List(ctx context.Context) ([]string, error)

	// Remove unregisters name and evicts its cached machine.
	Remove(ctx context.Context, name string) error

	// Read runs the named machine over input and returns the final state.
	Read(ctx context.Context, name, input string) (dfa.State, error)

	// Test reports whether the named machine accepts input. The verdict is
	// total; the error is only about resolving the machine itself.
	Test(ctx context.Context, name, input string) (bool, error)

	// Trace returns the states the named machine visits while scanning
	// input, starting with the initial state.
	Trace(ctx context.Context, name, input string) ([]dfa.State, error)
}
