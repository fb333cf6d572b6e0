package espalier_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arvholm/espalier"
	"github.com/arvholm/espalier/pkg/adapters/file"
	"github.com/arvholm/espalier/pkg/adapters/memory"
	"github.com/arvholm/espalier/pkg/definition"
	"github.com/arvholm/espalier/pkg/dfa"
)

func TestFacade_Integration(t *testing.T) {
	// 0. Setup temp definitions directory
	dir := t.TempDir()
	doc := []byte(`name: toggle
states: [low, high]
alphabet: ["t"]
initial: low
accepting: [high]
transitions:
  low: {t: high}
  high: {t: low}
`)
	if err := os.WriteFile(filepath.Join(dir, "toggle.yaml"), doc, 0o644); err != nil {
		t.Fatal(err)
	}

	// 1. Test initialization with a filesystem loader
	loader, err := file.NewLoader(dir)
	if err != nil {
		t.Fatalf("Failed to initialize loader for %s: %v", dir, err)
	}
	eng := espalier.New(espalier.WithLoader(loader))

	ctx := context.Background()
	n, err := eng.Preload(ctx)
	if err != nil {
		t.Fatalf("Preload failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 machine preloaded, got %d", n)
	}

	// 2. Test queries against the preloaded machine
	accepted, err := eng.Test(ctx, "toggle", "t")
	if err != nil {
		t.Fatalf("Test failed: %v", err)
	}
	if !accepted {
		t.Error("Expected \"t\" to be accepted")
	}

	path, err := eng.Trace(ctx, "toggle", "tt")
	if err != nil {
		t.Fatalf("Trace failed: %v", err)
	}
	if len(path) != 3 || path[0] != "low" || path[1] != "high" || path[2] != "low" {
		t.Errorf("Expected trace [low high low], got %v", path)
	}

	// 3. Test removal
	if err := eng.Remove(ctx, "toggle"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := eng.Machine(ctx, "toggle"); !errors.Is(err, definition.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after removal, got: %v", err)
	}
}

func TestFacade_WithStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	eng := espalier.New(espalier.WithStore(store))
	if eng.Store() != store {
		t.Fatal("Expected the injected store to be used")
	}

	def := &definition.Definition{
		Name:      "single",
		States:    []string{"s"},
		Alphabet:  []string{"a"},
		Initial:   "s",
		Accepting: []string{"s"},
		Transitions: map[string]any{
			"s": map[string]any{"a": "s"},
		},
	}
	if _, _, err := eng.Register(ctx, def); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// The record must be visible through the injected store directly.
	if _, err := store.Load(ctx, "single"); err != nil {
		t.Errorf("Expected the definition in the injected store, got: %v", err)
	}
}

func TestFacade_WarningHandler(t *testing.T) {
	ctx := context.Background()

	var warnings []dfa.Warning
	eng := espalier.New(espalier.WithWarningHandler(func(w dfa.Warning) {
		warnings = append(warnings, w)
	}))

	def := &definition.Definition{
		Name:      "dupes",
		States:    []string{"s", "s"},
		Alphabet:  []string{"a", "a"},
		Initial:   "s",
		Accepting: []string{"s", "s"},
		Transitions: map[string]any{
			"s": map[string]any{"a": "s"},
		},
	}
	if _, _, err := eng.Register(ctx, def); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	want := []dfa.WarningKind{dfa.WarnDuplicateState, dfa.WarnDuplicateSymbol, dfa.WarnDuplicateAccept}
	if len(warnings) != len(want) {
		t.Fatalf("Expected %d warnings, got %v", len(want), warnings)
	}
	for i, kind := range want {
		if warnings[i].Kind != kind {
			t.Errorf("Expected warning %d to be %s, got %s", i, kind, warnings[i].Kind)
		}
	}
}

func TestFacade_PreloadRequiresLoader(t *testing.T) {
	eng := espalier.New()
	if _, err := eng.Preload(context.Background()); err == nil {
		t.Fatal("Expected Preload without a loader to fail")
	}
}
