package espalier_test

import (
	"context"
	"fmt"
	"log"

	"github.com/arvholm/espalier"
	"github.com/arvholm/espalier/pkg/adapters/memory"
	"github.com/arvholm/espalier/pkg/definition"
)

// ExampleEngine_Preload demonstrates seeding an engine from a loader,
// the way the serve command seeds one from a definitions directory.
func ExampleEngine_Preload() {
	// 1. Define machines using pure Go structs
	loader, err := memory.NewLoader(
		&definition.Definition{
			Name:      "all-zeros",
			States:    []string{"ok", "bad"},
			Alphabet:  []string{"0", "1"},
			Initial:   "ok",
			Accepting: []string{"ok"},
			Transitions: map[string]any{
				"ok":  map[string]any{"0": "ok", "1": "bad"},
				"bad": map[string]any{"default": "bad"},
			},
		},
		&definition.Definition{
			Name:      "non-empty",
			States:    []string{"empty", "seen"},
			Alphabet:  []string{"x"},
			Initial:   "empty",
			Accepting: []string{"seen"},
			Transitions: map[string]any{
				"empty": map[string]any{"x": "seen"},
				"seen":  map[string]any{"x": "seen"},
			},
		},
	)
	if err != nil {
		log.Fatal(err)
	}

	// 2. Initialize the Engine with the loader and pull everything in
	eng := espalier.New(espalier.WithLoader(loader))
	ctx := context.Background()

	n, err := eng.Preload(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("registered:", n)

	// 3. The machines are ready to query
	names, err := eng.List(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, name := range names {
		fmt.Println(name)
	}

	accepted, err := eng.Test(ctx, "all-zeros", "0010")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("0010 all zeros:", accepted)

	// Output:
	// registered: 2
	// all-zeros
	// non-empty
	// 0010 all zeros: false
}
