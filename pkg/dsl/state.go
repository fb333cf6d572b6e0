package dsl

import "github.com/arvholm/espalier/pkg/dfa"

// StateBuilder provides a fluent API for configuring one state.
type StateBuilder struct {
	name        dfa.State
	builder     *Builder
	moves       []move
	fallback    dfa.State
	hasFallback bool
	accepting   bool
}

type move struct {
	on dfa.Symbol
	to dfa.State
}

// On routes the given symbol to target. Repeating a symbol replaces the
// earlier rule.
func (s *StateBuilder) On(symbol dfa.Symbol, target dfa.State) *StateBuilder {
	for i, m := range s.moves {
		if m.on == symbol {
			s.moves[i].to = target
			return s
		}
	}
	s.moves = append(s.moves, move{on: symbol, to: target})
	return s
}

// Otherwise routes every symbol without an On rule to target.
func (s *StateBuilder) Otherwise(target dfa.State) *StateBuilder {
	s.fallback = target
	s.hasFallback = true
	return s
}

// Loop routes every symbol without an On rule back to the state itself.
// A state configured with nothing but Loop is a sink.
func (s *StateBuilder) Loop() *StateBuilder {
	return s.Otherwise(s.name)
}

// Accept marks the state as accepting.
func (s *StateBuilder) Accept() *StateBuilder {
	s.accepting = true
	return s
}

// entry assembles the transition entry this state contributes to the
// machine configuration.
func (s *StateBuilder) entry() dfa.Entry {
	var moves map[dfa.Symbol]dfa.State
	if len(s.moves) > 0 {
		moves = make(map[dfa.Symbol]dfa.State, len(s.moves))
		for _, m := range s.moves {
			moves[m.on] = m.to
		}
	}
	if s.hasFallback {
		return dfa.Fallback(moves, s.fallback)
	}
	return dfa.Moves(moves)
}
