package memory

import (
	"context"
	"testing"

	"github.com/arvholm/espalier/pkg/definition"
	"github.com/arvholm/espalier/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := NewStore()
	ports.RunMachineStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := NewStore()
	def := &definition.Definition{
		Name:     "iso",
		States:   []string{"a"},
		Alphabet: []string{"0"},
		Initial:  "a",
		Transitions: map[string]any{
			"a": map[string]any{"0": "a"},
		},
	}
	if _, err := store.Save(context.Background(), def); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Mutating the caller's document must not reach the stored copy.
	def.States[0] = "mutated"
	def.Transitions["a"] = "garbage"

	loaded, err := store.Load(context.Background(), "iso")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Definition.States[0] != "a" {
		t.Errorf("stored state mutated: %v", loaded.Definition.States)
	}
	if _, err := loaded.Definition.Compile(); err != nil {
		t.Errorf("stored definition no longer compiles: %v", err)
	}

	// Mutating a loaded copy must not reach the store either.
	loaded.Definition.Initial = "mutated"
	again, err := store.Load(context.Background(), "iso")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if again.Definition.Initial != "a" {
		t.Errorf("Initial = %q, want a", again.Definition.Initial)
	}
}
