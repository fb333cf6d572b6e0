/*
Package espalier compiles, stores and runs deterministic finite automata (DFAs).

A machine is declared as a definition: a state set, an alphabet of single-character symbols, a transition table, an initial state and a set of accepting states. The engine validates the whole declaration when a machine is registered, so queries never hit an undefined transition at runtime.

# Concept

Espalier separates what a machine is (a Definition document in YAML or JSON) from its compiled form (a dfa.Machine) and from where definitions live (stores and loaders). This hexagonal layout lets the same engine back a direct library call, a CLI, an HTTP API or an MCP server without the core knowing which one is driving it.

# Key Features

  - Total transition tables: every state/symbol pair is checked at registration, with typed errors naming exactly what is wrong and where.
  - Sink short-circuit: once a machine enters a state it can never leave, reads stop scanning; the rest of the input is not examined.
  - Shorthand tables: declare the interesting transitions plus a default target and the compiler fills in the rest.
  - Pluggable persistence: in-memory, filesystem, Redis and SQLite stores share a single contract.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/arvholm/espalier"
		"github.com/arvholm/espalier/pkg/definition"
	)

	func main() {
		eng := espalier.New()
		ctx := context.Background()

		def := &definition.Definition{
			Name:      "ends-in-one",
			States:    []string{"no", "yes"},
			Alphabet:  []string{"0", "1"},
			Initial:   "no",
			Accepting: []string{"yes"},
			Transitions: map[string]any{
				"no":  map[string]any{"0": "no", "1": "yes"},
				"yes": map[string]any{"0": "no", "1": "yes"},
			},
		}

		if _, _, err := eng.Register(ctx, def); err != nil {
			log.Fatal(err)
		}

		accepted, err := eng.Test(ctx, "ends-in-one", "0101")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(accepted) // true
	}
*/
package espalier
