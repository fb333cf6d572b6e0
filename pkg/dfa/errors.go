package dfa

import (
	"errors"
	"fmt"
)

// ErrUnknownState is returned by Step when asked about a state that is not
// part of the machine.
var ErrUnknownState = errors.New("unknown state")

// ErrUnknownSymbol is returned by Step when asked about a symbol that is
// not part of the alphabet.
var ErrUnknownSymbol = errors.New("symbol not in alphabet")

// MissingEntryError reports a state in Q without a transition entry.
type MissingEntryError struct {
	State State
}

func (e *MissingEntryError) Error() string {
	return fmt.Sprintf("state %q has no transition entry", e.State)
}

// MalformedEntryError reports a transition entry that is neither a full
// symbol map nor a [partial map, default] shorthand pair. Kind describes
// the shape that was found.
type MalformedEntryError struct {
	State State
	Kind  string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("transition entry for state %q is %s, want a symbol map or a [partial map, default state] pair", e.State, e.Kind)
}

// MissingTransitionError reports a full-form entry that does not cover an
// alphabet symbol.
type MissingTransitionError struct {
	State  State
	Symbol Symbol
}

func (e *MissingTransitionError) Error() string {
	return fmt.Sprintf("missing transition out of state %q on symbol %q", e.State, e.Symbol)
}

// InvalidTransitionTypeError reports a transition value that is not a state
// label. Kind describes the value that was found.
type InvalidTransitionTypeError struct {
	State  State
	Symbol Symbol
	Kind   string
}

func (e *InvalidTransitionTypeError) Error() string {
	return fmt.Sprintf("transition out of state %q on symbol %q is %s, want a state label", e.State, e.Symbol, e.Kind)
}

// UnknownSymbolError reports a declared transition key that is not part of
// the alphabet. Key is the key as written, which may not be a valid symbol
// at all when the entry came from a decoded document.
type UnknownSymbolError struct {
	State State
	Key   string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("transition out of state %q declares symbol %q which is not in the alphabet", e.State, e.Key)
}

// InvalidTargetError reports a transition whose target is not a member of
// the state set.
type InvalidTargetError struct {
	State  State
	Symbol Symbol
	Target State
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("transition out of state %q on symbol %q targets unknown state %q", e.State, e.Symbol, e.Target)
}

// InvalidDefaultError reports a shorthand entry whose default target is not
// a member of the state set.
type InvalidDefaultError struct {
	State   State
	Default State
}

func (e *InvalidDefaultError) Error() string {
	return fmt.Sprintf("default transition out of state %q targets unknown state %q", e.State, e.Default)
}

// InvalidInitialError reports an initial state outside the state set.
type InvalidInitialError struct {
	State State
}

func (e *InvalidInitialError) Error() string {
	return fmt.Sprintf("initial state %q is not in the state set", e.State)
}

// InvalidAcceptError reports an accepting state outside the state set.
type InvalidAcceptError struct {
	State State
}

func (e *InvalidAcceptError) Error() string {
	return fmt.Sprintf("accepting state %q is not in the state set", e.State)
}

// UnknownInputError reports an input character outside the alphabet.
// Position is the rune index within the scanned input.
type UnknownInputError struct {
	Symbol   Symbol
	Position int
}

func (e *UnknownInputError) Error() string {
	return fmt.Sprintf("unknown input symbol %q at position %d", e.Symbol, e.Position)
}
