// Package definition describes automata in serializable form.
//
// A Definition is the document a machine is declared in: YAML or JSON with
// a name, the state set, the alphabet, a transition table and the initial
// and accepting states. Definitions are what stores persist and loaders
// read; Compile turns one into an executable dfa.Machine, reporting the
// same construction errors the dfa package does.
package definition

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/arvholm/espalier/pkg/dfa"
)

// ErrNotFound is returned by loaders and stores when no definition exists
// under the requested name.
var ErrNotFound = errors.New("definition not found")

// ErrUnnamed is returned when a definition without a name is handed to a
// component that files definitions by name.
var ErrUnnamed = errors.New("definition has no name")

// Definition declares an automaton. Transition entries are kept in their
// document form and resolved during Compile; see ResolveEntry for the
// accepted shapes.
type Definition struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	States      []string       `json:"states" yaml:"states"`
	Alphabet    []string       `json:"alphabet" yaml:"alphabet"`
	Initial     string         `json:"initial" yaml:"initial"`
	Accepting   []string       `json:"accepting" yaml:"accepting"`
	Transitions map[string]any `json:"transitions" yaml:"transitions"`
}

// Compile validates the definition and builds the executable machine.
// Transition entries are resolved state by state in declared order, so
// document-shape errors are reported as deterministically as membership
// errors. Transition entries for states outside the state set are ignored,
// matching how the table is only ever consulted per declared state.
func (d *Definition) Compile(opts ...dfa.Option) (*dfa.Machine, error) {
	alphabet := make([]dfa.Symbol, 0, len(d.Alphabet))
	for _, s := range d.Alphabet {
		sym, err := symbolOf(s)
		if err != nil {
			return nil, err
		}
		alphabet = append(alphabet, sym)
	}

	transitions := make(map[dfa.State]dfa.Entry, len(d.Transitions))
	seen := make(map[string]bool, len(d.States))
	for _, state := range d.States {
		if seen[state] {
			continue
		}
		seen[state] = true
		raw, ok := d.Transitions[state]
		if !ok {
			return nil, &dfa.MissingEntryError{State: dfa.State(state)}
		}
		entry, err := ResolveEntry(dfa.State(state), raw)
		if err != nil {
			return nil, err
		}
		transitions[dfa.State(state)] = entry
	}

	states := make([]dfa.State, len(d.States))
	for i, s := range d.States {
		states[i] = dfa.State(s)
	}
	accepting := make([]dfa.State, len(d.Accepting))
	for i, s := range d.Accepting {
		accepting[i] = dfa.State(s)
	}

	return dfa.New(dfa.Config{
		Label:       d.Name,
		States:      states,
		Alphabet:    alphabet,
		Transitions: transitions,
		Initial:     dfa.State(d.Initial),
		Accepting:   accepting,
	}, opts...)
}

// FromMachine exports a compiled machine back into document form. The
// result is canonical: deduplicated sets and a fully enumerated transition
// table, regardless of the shorthand the machine was declared with.
func FromMachine(m *dfa.Machine) *Definition {
	states := m.States()
	alphabet := m.Alphabet()
	accepting := m.Accepting()

	def := &Definition{
		Name:        m.Label(),
		States:      make([]string, len(states)),
		Alphabet:    make([]string, len(alphabet)),
		Initial:     string(m.Initial()),
		Accepting:   make([]string, len(accepting)),
		Transitions: make(map[string]any, len(states)),
	}
	for i, s := range states {
		def.States[i] = string(s)
	}
	for i, sym := range alphabet {
		def.Alphabet[i] = string(sym)
	}
	for i, s := range accepting {
		def.Accepting[i] = string(s)
	}
	for state, row := range m.Transitions() {
		entry := make(map[string]any, len(row))
		for sym, target := range row {
			entry[string(sym)] = string(target)
		}
		def.Transitions[string(state)] = entry
	}
	return def
}

// Clone returns a deep copy of the definition. Transition entries are
// normalized the same way Decode normalizes them.
func (d *Definition) Clone() *Definition {
	out := *d
	out.States = append([]string(nil), d.States...)
	out.Alphabet = append([]string(nil), d.Alphabet...)
	out.Accepting = append([]string(nil), d.Accepting...)
	if d.Transitions != nil {
		out.Transitions = make(map[string]any, len(d.Transitions))
		for state, raw := range d.Transitions {
			out.Transitions[state] = normalizeValue(raw)
		}
	}
	return &out
}

// Stored is a definition at rest in a MachineStore, carrying the metadata
// the store stamps on save.
type Stored struct {
	Definition Definition `json:"definition"`
	Revision   string     `json:"revision"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewStored stamps def with a fresh revision and the current time. Store
// adapters call it on every save, so each write is distinguishable.
func NewStored(def *Definition) *Stored {
	return &Stored{
		Definition: *def,
		Revision:   uuid.NewString(),
		UpdatedAt:  time.Now().UTC(),
	}
}
