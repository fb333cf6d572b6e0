package ports

import (
	"context"

	"github.com/arvholm/espalier/pkg/definition"
)

// DefinitionLoader defines how machine definitions are read from a source
// the engine does not own, such as a directory of documents. Loaders index
// definitions by the name declared inside the document.
type DefinitionLoader interface {
	// Get retrieves the definition declared under name.
	// Returns definition.ErrNotFound if the source has no such definition.
	Get(ctx context.Context, name string) (*definition.Definition, error)

	// List returns the names of every definition the source offers, in
	// lexical order.
	List(ctx context.Context) ([]string, error)
}
