package dfa

// scan consumes input and returns the index of the final state. The scan
// stops as soon as a sink state is entered; characters past that point are
// never examined, so they are not checked against the alphabet either.
func (m *Machine) scan(input string) (int, error) {
	at := m.initial
	pos := 0
	for _, r := range input {
		if m.sink[at] {
			break
		}
		ci, ok := m.symIdx[Symbol(r)]
		if !ok {
			return 0, &UnknownInputError{Symbol: Symbol(r), Position: pos}
		}
		at = m.delta[at][ci]
		pos++
	}
	return at, nil
}

// Read scans input from the initial state and returns the state occupied
// when the scan ends, either because the input is exhausted or because a
// sink state was entered. A character outside the alphabet aborts the scan
// with an UnknownInputError; no partial result is returned.
func (m *Machine) Read(input string) (State, error) {
	at, err := m.scan(input)
	if err != nil {
		return "", err
	}
	return m.states[at], nil
}

// Test reports whether input is accepted: Read must succeed and end on an
// accepting state. Test is total; input containing characters outside the
// alphabet is rejected rather than failing.
func (m *Machine) Test(input string) bool {
	at, err := m.scan(input)
	return err == nil && m.accepting[at]
}

// Trace returns the states visited while scanning input, starting with the
// initial state. It follows the same rules as Read, including the sink
// short-circuit, so the path may be shorter than the input.
func (m *Machine) Trace(input string) ([]State, error) {
	at := m.initial
	path := make([]State, 1, len(input)+1)
	path[0] = m.states[at]
	pos := 0
	for _, r := range input {
		if m.sink[at] {
			break
		}
		ci, ok := m.symIdx[Symbol(r)]
		if !ok {
			return nil, &UnknownInputError{Symbol: Symbol(r), Position: pos}
		}
		at = m.delta[at][ci]
		path = append(path, m.states[at])
		pos++
	}
	return path, nil
}

// Cursor evaluates input one symbol at a time, for callers that stream
// their input instead of holding it in a string. A cursor is cheap to
// create and not safe for concurrent use; the machine behind it is.
type Cursor struct {
	m   *Machine
	at  int
	pos int
}

// Start returns a cursor positioned on the initial state.
func (m *Machine) Start() *Cursor {
	return &Cursor{m: m, at: m.initial}
}

// Feed consumes one symbol. Once the cursor occupies a sink state Feed
// accepts anything and changes nothing, matching the scan short-circuit.
// A symbol outside the alphabet fails with an UnknownInputError and leaves
// the cursor where it was.
func (c *Cursor) Feed(sym Symbol) error {
	if c.m.sink[c.at] {
		c.pos++
		return nil
	}
	ci, ok := c.m.symIdx[sym]
	if !ok {
		return &UnknownInputError{Symbol: sym, Position: c.pos}
	}
	c.at = c.m.delta[c.at][ci]
	c.pos++
	return nil
}

// State returns the state the cursor currently occupies.
func (c *Cursor) State() State { return c.m.states[c.at] }

// Accepting reports whether the cursor occupies an accepting state.
func (c *Cursor) Accepting() bool { return c.m.accepting[c.at] }

// InSink reports whether the cursor occupies a sink state, in which case
// no further input can change the outcome.
func (c *Cursor) InSink() bool { return c.m.sink[c.at] }

// Position returns the number of symbols consumed so far.
func (c *Cursor) Position() int { return c.pos }
