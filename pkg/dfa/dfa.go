// Package dfa builds and executes deterministic finite automata.
//
// A Machine is constructed once from a Config and is immutable afterwards:
// the declared states and alphabet are deduplicated, every transition entry
// is expanded into a table that is total over states x symbols, and
// absorbing (sink) states are precomputed so that evaluation can stop as
// soon as the outcome is fixed. Construction either succeeds completely or
// fails with a typed error naming the offending state and symbol; no
// partially built machine is ever returned.
package dfa

// State is an opaque state label. Labels are compared by equality and are
// unique within a machine after deduplication.
type State string

// Symbol is a single input symbol.
type Symbol rune

// Config declares an automaton. All slices and maps are copied during
// construction; the caller keeps ownership of its values.
type Config struct {
	// Label is free-form metadata with no semantic effect.
	Label string

	// States is the state set Q. Duplicates are dropped, first occurrence
	// wins, and each removal is reported through the warning handler.
	States []State

	// Alphabet is the input alphabet. Duplicates are dropped the same way
	// as duplicate states.
	Alphabet []Symbol

	// Transitions maps every state in Q to its outgoing transition entry.
	Transitions map[State]Entry

	// Initial is the state occupied before any input is consumed. It must
	// be a member of Q.
	Initial State

	// Accepting lists the states that denote successful recognition. Every
	// entry must be a member of Q; the list may be empty.
	Accepting []State
}
