package dfa

import "fmt"

// Machine is a fully constructed automaton. It is immutable: every method
// is read-only and safe to call from concurrent goroutines without
// synchronization.
type Machine struct {
	label     string
	states    []State
	alphabet  []Symbol
	stateIdx  map[State]int
	symIdx    map[Symbol]int
	delta     [][]int // delta[state][symbol] = target state, index form
	initial   int
	accepting []bool
	sink      []bool
}

// Label returns the free-form label the machine was declared with.
func (m *Machine) Label() string { return m.label }

// States returns the deduplicated state set in declaration order.
func (m *Machine) States() []State {
	out := make([]State, len(m.states))
	copy(out, m.states)
	return out
}

// Alphabet returns the deduplicated alphabet in declaration order.
func (m *Machine) Alphabet() []Symbol {
	out := make([]Symbol, len(m.alphabet))
	copy(out, m.alphabet)
	return out
}

// Initial returns the state occupied before any input is consumed.
func (m *Machine) Initial() State { return m.states[m.initial] }

// Accepting returns the accepting states in state-set order.
func (m *Machine) Accepting() []State {
	var out []State
	for i, ok := range m.accepting {
		if ok {
			out = append(out, m.states[i])
		}
	}
	return out
}

// Sinks returns the absorbing states in state-set order. A state is a sink
// when every alphabet symbol transitions back to it; once entered, the
// outcome of a scan is fixed.
func (m *Machine) Sinks() []State {
	var out []State
	for i, ok := range m.sink {
		if ok {
			out = append(out, m.states[i])
		}
	}
	return out
}

// IsAccepting reports whether s is an accepting state. Unknown states are
// not accepting.
func (m *Machine) IsAccepting(s State) bool {
	i, ok := m.stateIdx[s]
	return ok && m.accepting[i]
}

// IsSink reports whether s is an absorbing state. Unknown states are not
// sinks.
func (m *Machine) IsSink(s State) bool {
	i, ok := m.stateIdx[s]
	return ok && m.sink[i]
}

// Transitions returns a copy of the completed transition table. The result
// is total: every state maps every alphabet symbol to a target state.
func (m *Machine) Transitions() map[State]map[Symbol]State {
	table := make(map[State]map[Symbol]State, len(m.states))
	for qi, q := range m.states {
		row := make(map[Symbol]State, len(m.alphabet))
		for ci, sym := range m.alphabet {
			row[sym] = m.states[m.delta[qi][ci]]
		}
		table[q] = row
	}
	return table
}

// Step returns the state reached from `from` on symbol `on`, a single
// lookup in the completed table.
func (m *Machine) Step(from State, on Symbol) (State, error) {
	qi, ok := m.stateIdx[from]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownState, from)
	}
	ci, ok := m.symIdx[on]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSymbol, on)
	}
	return m.states[m.delta[qi][ci]], nil
}
