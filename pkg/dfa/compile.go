package dfa

import "sort"

type builder struct {
	warn func(Warning)
}

func (b *builder) warning(w Warning) {
	if b.warn != nil {
		b.warn(w)
	}
}

// New constructs a Machine from cfg. Construction runs in one atomic step:
// the state set and alphabet are deduplicated, every transition entry is
// validated and expanded into a table that is total over states x symbols,
// sink states are recorded, and the initial and accepting states are
// checked for membership. On any failure no machine is returned.
//
// Errors are deterministic: states are examined in the order of the
// deduplicated state set, symbols in the order of the deduplicated
// alphabet, and declared entry keys in sorted order.
func New(cfg Config, opts ...Option) (*Machine, error) {
	var b builder
	for _, opt := range opts {
		opt(&b)
	}

	m := &Machine{
		label:    cfg.Label,
		stateIdx: make(map[State]int, len(cfg.States)),
		symIdx:   make(map[Symbol]int, len(cfg.Alphabet)),
	}

	for _, q := range cfg.States {
		if _, dup := m.stateIdx[q]; dup {
			b.warning(Warning{Kind: WarnDuplicateState, Value: string(q)})
			continue
		}
		m.stateIdx[q] = len(m.states)
		m.states = append(m.states, q)
	}
	for _, sym := range cfg.Alphabet {
		if _, dup := m.symIdx[sym]; dup {
			b.warning(Warning{Kind: WarnDuplicateSymbol, Value: string(sym)})
			continue
		}
		m.symIdx[sym] = len(m.alphabet)
		m.alphabet = append(m.alphabet, sym)
	}

	m.delta = make([][]int, len(m.states))
	m.sink = make([]bool, len(m.states))
	for qi, q := range m.states {
		entry, ok := cfg.Transitions[q]
		if !ok {
			return nil, &MissingEntryError{State: q}
		}
		row, err := m.completeRow(q, entry)
		if err != nil {
			return nil, err
		}
		m.delta[qi] = row
		m.sink[qi] = isSinkRow(row, qi)
	}

	initial, ok := m.stateIdx[cfg.Initial]
	if !ok {
		return nil, &InvalidInitialError{State: cfg.Initial}
	}
	m.initial = initial

	m.accepting = make([]bool, len(m.states))
	for _, q := range cfg.Accepting {
		i, ok := m.stateIdx[q]
		if !ok {
			return nil, &InvalidAcceptError{State: q}
		}
		if m.accepting[i] {
			b.warning(Warning{Kind: WarnDuplicateAccept, Value: string(q)})
			continue
		}
		m.accepting[i] = true
	}

	return m, nil
}

// completeRow expands one state's entry into a table row indexed by
// alphabet position. Declared keys must belong to the alphabet and declared
// targets to the state set, in both entry forms.
func (m *Machine) completeRow(q State, e Entry) ([]int, error) {
	if e.shorthand {
		def, ok := m.stateIdx[e.fallback]
		if !ok {
			return nil, &InvalidDefaultError{State: q, Default: e.fallback}
		}
		for _, sym := range sortedKeys(e.moves) {
			if _, ok := m.symIdx[sym]; !ok {
				return nil, &UnknownSymbolError{State: q, Key: string(sym)}
			}
			if _, ok := m.stateIdx[e.moves[sym]]; !ok {
				return nil, &InvalidTargetError{State: q, Symbol: sym, Target: e.moves[sym]}
			}
		}
		row := make([]int, len(m.alphabet))
		for ci, sym := range m.alphabet {
			if target, ok := e.moves[sym]; ok {
				row[ci] = m.stateIdx[target]
			} else {
				row[ci] = def
			}
		}
		return row, nil
	}

	for _, sym := range sortedKeys(e.moves) {
		if _, ok := m.symIdx[sym]; !ok {
			return nil, &UnknownSymbolError{State: q, Key: string(sym)}
		}
	}
	row := make([]int, len(m.alphabet))
	for ci, sym := range m.alphabet {
		target, ok := e.moves[sym]
		if !ok {
			return nil, &MissingTransitionError{State: q, Symbol: sym}
		}
		ti, ok := m.stateIdx[target]
		if !ok {
			return nil, &InvalidTargetError{State: q, Symbol: sym, Target: target}
		}
		row[ci] = ti
	}
	return row, nil
}

// isSinkRow reports whether every symbol loops back to the state itself.
// With an empty alphabet there is no counter-evidence, so the state is
// vacuously a sink.
func isSinkRow(row []int, self int) bool {
	for _, target := range row {
		if target != self {
			return false
		}
	}
	return true
}

func sortedKeys(moves map[Symbol]State) []Symbol {
	keys := make([]Symbol, 0, len(moves))
	for sym := range moves {
		keys = append(keys, sym)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
