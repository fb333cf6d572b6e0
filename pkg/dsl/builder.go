package dsl

import (
	"fmt"

	"github.com/arvholm/espalier/pkg/dfa"
)

// Builder accumulates the structure of a machine.
type Builder struct {
	label    string
	order    []*StateBuilder
	index    map[dfa.State]*StateBuilder
	alphabet []dfa.Symbol
	initial  dfa.State
}

// New creates a builder for a machine with the given label.
func New(label string) *Builder {
	return &Builder{
		label: label,
		index: make(map[dfa.State]*StateBuilder),
	}
}

// State declares a state and returns its builder for configuration.
// If the state was already declared, the existing builder is returned.
// The first state declared is the initial state unless Initial overrides it.
func (b *Builder) State(name dfa.State) *StateBuilder {
	if sb, ok := b.index[name]; ok {
		return sb
	}
	sb := &StateBuilder{
		name:    name,
		builder: b,
	}
	b.index[name] = sb
	b.order = append(b.order, sb)
	if len(b.order) == 1 {
		b.initial = name
	}
	return sb
}

// Alphabet pins the symbol set explicitly, in the given order. Without it,
// Build infers the alphabet from the symbols named in On rules.
func (b *Builder) Alphabet(symbols ...dfa.Symbol) *Builder {
	b.alphabet = symbols
	return b
}

// Initial overrides which state the machine starts in.
func (b *Builder) Initial(name dfa.State) *Builder {
	b.initial = name
	return b
}

// Build compiles the accumulated structure into a machine, running the full
// construction validation of dfa.New.
func (b *Builder) Build(opts ...dfa.Option) (*dfa.Machine, error) {
	if len(b.order) == 0 {
		return nil, fmt.Errorf("machine %q declares no states", b.label)
	}

	alphabet := b.alphabet
	if alphabet == nil {
		alphabet = b.inferAlphabet()
	}

	cfg := dfa.Config{
		Label:       b.label,
		States:      make([]dfa.State, 0, len(b.order)),
		Alphabet:    alphabet,
		Transitions: make(map[dfa.State]dfa.Entry, len(b.order)),
		Initial:     b.initial,
	}
	for _, sb := range b.order {
		cfg.States = append(cfg.States, sb.name)
		cfg.Transitions[sb.name] = sb.entry()
		if sb.accepting {
			cfg.Accepting = append(cfg.Accepting, sb.name)
		}
	}
	return dfa.New(cfg, opts...)
}

// inferAlphabet collects the symbols used by On rules, in first-use order
// across states in declaration order, so the result is deterministic.
func (b *Builder) inferAlphabet() []dfa.Symbol {
	var symbols []dfa.Symbol
	seen := make(map[dfa.Symbol]bool)
	for _, sb := range b.order {
		for _, m := range sb.moves {
			if !seen[m.on] {
				seen[m.on] = true
				symbols = append(symbols, m.on)
			}
		}
	}
	return symbols
}
