package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/arvholm/espalier/pkg/definition"
)

func main() {
	targetDir := "examples/definitions"
	if len(os.Args) > 1 {
		targetDir = os.Args[1]
	}

	// Ensure dir exists
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		panic(err)
	}

	fmt.Printf("Generating sample machines in: %s\n", targetDir)

	// 1. Parity (full per-symbol tables)
	parity := &definition.Definition{
		Name:        "parity",
		Description: "Accepts binary strings containing an odd number of ones.",
		States:      []string{"even", "odd"},
		Alphabet:    []string{"0", "1"},
		Initial:     "even",
		Accepting:   []string{"odd"},
		Transitions: map[string]any{
			"even": map[string]any{"0": "even", "1": "odd"},
			"odd":  map[string]any{"0": "odd", "1": "even"},
		},
	}
	write(targetDir, parity)

	// 2. Starts-with-one (all-fallback shorthand for the sink states)
	trapdoor := &definition.Definition{
		Name:        "starts-with-one",
		Description: "Accepts binary strings beginning with a one; everything else falls into a dead sink.",
		States:      []string{"start", "live", "dead"},
		Alphabet:    []string{"0", "1"},
		Initial:     "start",
		Accepting:   []string{"live"},
		Transitions: map[string]any{
			"start": map[string]any{"0": "dead", "1": "live"},
			"live":  map[string]any{"default": "live"},
			"dead":  map[string]any{"default": "dead"},
		},
	}
	write(targetDir, trapdoor)

	// 3. Ends-in-one (pair shorthand mixing explicit and fallback entries)
	suffix := &definition.Definition{
		Name:        "ends-in-one",
		Description: "Accepts binary strings whose final symbol is a one.",
		States:      []string{"zero", "one"},
		Alphabet:    []string{"0", "1"},
		Initial:     "zero",
		Accepting:   []string{"one"},
		Transitions: map[string]any{
			"zero": []any{map[string]any{"1": "one"}, "zero"},
			"one":  []any{map[string]any{"0": "zero"}, "one"},
		},
	}
	write(targetDir, suffix)

	fmt.Println("Done. Verify contents in", targetDir)
}

// write compiles the definition before serializing it, so the generator
// can never emit a fixture the rest of the tooling rejects.
func write(dir string, def *definition.Definition) {
	_, err := def.Compile()
	check(err)

	data, err := yaml.Marshal(def)
	check(err)

	path := filepath.Join(dir, def.Name+".yaml")
	check(os.WriteFile(path, data, 0644))
	fmt.Printf("  wrote %s\n", path)
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}
