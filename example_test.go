package espalier_test

import (
	"context"
	"fmt"
	"log"

	"github.com/arvholm/espalier"
	"github.com/arvholm/espalier/pkg/definition"
)

// ExampleNew demonstrates registering a machine and querying it.
func ExampleNew() {
	eng := espalier.New()
	ctx := context.Background()

	// 1. Declare the machine: binary strings with an odd number of ones.
	def := &definition.Definition{
		Name:      "odd-ones",
		States:    []string{"even", "odd"},
		Alphabet:  []string{"0", "1"},
		Initial:   "even",
		Accepting: []string{"odd"},
		Transitions: map[string]any{
			"even": map[string]any{"0": "even", "1": "odd"},
			"odd":  map[string]any{"0": "odd", "1": "even"},
		},
	}

	// 2. Register it. Compilation validates the whole table up front.
	if _, _, err := eng.Register(ctx, def); err != nil {
		log.Fatal(err)
	}

	// 3. Query it.
	for _, input := range []string{"1", "11", "0110"} {
		accepted, err := eng.Test(ctx, "odd-ones", input)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s: %v\n", input, accepted)
	}

	final, err := eng.Read(ctx, "odd-ones", "100")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("ends in:", final)

	// Output:
	// 1: true
	// 11: false
	// 0110: true
	// ends in: odd
}
