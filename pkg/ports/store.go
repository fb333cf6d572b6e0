package ports

import (
	"context"

	"github.com/arvholm/espalier/pkg/definition"
)

// MachineStore defines the interface for persisting machine definitions.
// Stores deal in documents, not compiled machines; compiling is the
// registry's job.
type MachineStore interface {
	// Save persists def under def.Name, stamping a fresh revision, and
	// returns the stored record. Saving an existing name replaces it.
	// Returns definition.ErrUnnamed when def has no name.
	Save(ctx context.Context, def *definition.Definition) (*definition.Stored, error)

	// Load retrieves the record stored under name.
	// Returns definition.ErrNotFound if the name is unknown.
	Load(ctx context.Context, name string) (*definition.Stored, error)

	// Delete removes the record stored under name.
	// Returns definition.ErrNotFound if the name is unknown.
	Delete(ctx context.Context, name string) error

	// List returns the stored names in lexical order.
	List(ctx context.Context) ([]string, error)
}
