/*
Package dsl provides a fluent builder for constructing machines in Go.

It lets developers declare automata with a type-safe, chainable API instead
of external YAML or JSON documents. This is particularly useful for machines
generated at runtime, for unit tests, and for leveraging IDE autocompletion
and type checking.

Example usage:

	b := dsl.New("starts-with-one")

	b.State("start").
		On('1', "live").
		On('0', "dead")

	b.State("live").Loop().Accept()
	b.State("dead").Loop()

	machine, err := b.Build()
	if err != nil {
		// Handle construction errors
	}

	machine.Test("101") // true

The first state declared is the initial state; Initial overrides it. Build
runs the same validation as dfa.New, so a builder cannot produce a machine
a definition document could not.
*/
package dsl
