package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/arvholm/espalier/pkg/definition"
	"github.com/arvholm/espalier/pkg/ports"
)

// DefinitionLoaderContractTest is a reusable test suite that verifies if an
// adapter complies with ports.DefinitionLoader. wantNames lists the
// definition names the loader under test was seeded with.
func DefinitionLoaderContractTest(t *testing.T, loader ports.DefinitionLoader, wantNames []string) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_Success", func(t *testing.T) {
		for _, name := range wantNames {
			def, err := loader.Get(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error getting %s: %v", name, err)
			}
			if def.Name != name {
				t.Errorf("definition name mismatch. got %q, want %q", def.Name, name)
			}
			if _, err := def.Compile(); err != nil {
				t.Errorf("definition %s does not compile: %v", name, err)
			}
		}
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := loader.Get(ctx, "non-existent-machine")
		if err == nil {
			t.Fatal("expected error for non-existent definition, got nil")
		}
		if !errors.Is(err, definition.ErrNotFound) {
			t.Errorf("expected definition.ErrNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		names, err := loader.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing: %v", err)
		}
		if len(names) != len(wantNames) {
			t.Fatalf("listed %d names, want %d (%v)", len(names), len(wantNames), names)
		}
		for i := 1; i < len(names); i++ {
			if names[i-1] > names[i] {
				t.Errorf("names not in lexical order: %v", names)
				break
			}
		}
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			seen[name] = true
		}
		for _, want := range wantNames {
			if !seen[want] {
				t.Errorf("missing %q in %v", want, names)
			}
		}
	})
}
