package dfa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvholm/espalier/pkg/dfa"
)

// parityConfig accepts strings with an even count of 0s and an odd count
// of 1s. Four states track the two parities.
func parityConfig() dfa.Config {
	return dfa.Config{
		Label:    "parity",
		States:   []dfa.State{"q0", "q1", "q2", "q3"},
		Alphabet: []dfa.Symbol{'0', '1'},
		Transitions: map[dfa.State]dfa.Entry{
			"q0": dfa.Moves(map[dfa.Symbol]dfa.State{'0': "q1", '1': "q2"}),
			"q1": dfa.Moves(map[dfa.Symbol]dfa.State{'0': "q0", '1': "q3"}),
			"q2": dfa.Moves(map[dfa.Symbol]dfa.State{'0': "q3", '1': "q0"}),
			"q3": dfa.Moves(map[dfa.Symbol]dfa.State{'0': "q2", '1': "q1"}),
		},
		Initial:   "q0",
		Accepting: []dfa.State{"q2"},
	}
}

// trapConfig accepts alternating 0101... prefixes; any break in the
// pattern falls into the sink state e.
func trapConfig() dfa.Config {
	return dfa.Config{
		Label:    "alternating",
		States:   []dfa.State{"q0", "q1", "e"},
		Alphabet: []dfa.Symbol{'0', '1'},
		Transitions: map[dfa.State]dfa.Entry{
			"q0": dfa.Moves(map[dfa.Symbol]dfa.State{'0': "q1", '1': "e"}),
			"q1": dfa.Moves(map[dfa.Symbol]dfa.State{'0': "e", '1': "q0"}),
			"e":  dfa.Moves(map[dfa.Symbol]dfa.State{'0': "e", '1': "e"}),
		},
		Initial:   "q0",
		Accepting: []dfa.State{"q0", "q1"},
	}
}

func TestNew_CompletesTable(t *testing.T) {
	m, err := dfa.New(parityConfig())
	require.NoError(t, err)

	table := m.Transitions()
	assert.Len(t, table, 4)
	for _, q := range m.States() {
		row := table[q]
		require.Len(t, row, 2, "state %q", q)
		for _, sym := range m.Alphabet() {
			assert.Contains(t, m.States(), row[sym])
		}
	}
	assert.Equal(t, dfa.State("q0"), m.Initial())
	assert.Equal(t, []dfa.State{"q2"}, m.Accepting())
	assert.Equal(t, "parity", m.Label())
}

func TestNew_ShorthandMatchesFullForm(t *testing.T) {
	full, err := dfa.New(trapConfig())
	require.NoError(t, err)

	cfg := trapConfig()
	cfg.Transitions["q0"] = dfa.Fallback(map[dfa.Symbol]dfa.State{'0': "q1"}, "e")
	cfg.Transitions["q1"] = dfa.Fallback(map[dfa.Symbol]dfa.State{'1': "q0"}, "e")
	cfg.Transitions["e"] = dfa.Fallback(nil, "e")
	short, err := dfa.New(cfg)
	require.NoError(t, err)

	assert.Equal(t, full.Transitions(), short.Transitions())
	assert.Equal(t, full.Sinks(), short.Sinks())
}

func TestNew_SinkDetection(t *testing.T) {
	t.Run("trap state", func(t *testing.T) {
		m, err := dfa.New(trapConfig())
		require.NoError(t, err)
		assert.Equal(t, []dfa.State{"e"}, m.Sinks())
		assert.True(t, m.IsSink("e"))
		assert.False(t, m.IsSink("q0"))
		assert.False(t, m.IsSink("missing"))
	})

	t.Run("no sinks in parity machine", func(t *testing.T) {
		m, err := dfa.New(parityConfig())
		require.NoError(t, err)
		assert.Empty(t, m.Sinks())
	})

	t.Run("empty alphabet makes every state a sink", func(t *testing.T) {
		m, err := dfa.New(dfa.Config{
			States:      []dfa.State{"only"},
			Transitions: map[dfa.State]dfa.Entry{"only": dfa.Moves(nil)},
			Initial:     "only",
		})
		require.NoError(t, err)
		assert.Equal(t, []dfa.State{"only"}, m.Sinks())
	})
}

func TestNew_DeduplicatesWithWarnings(t *testing.T) {
	cfg := parityConfig()
	cfg.States = append(cfg.States, "q0", "q2")
	cfg.Alphabet = append(cfg.Alphabet, '1')
	cfg.Accepting = append(cfg.Accepting, "q2")

	var warnings []dfa.Warning
	m, err := dfa.New(cfg, dfa.WithWarningHandler(func(w dfa.Warning) {
		warnings = append(warnings, w)
	}))
	require.NoError(t, err)

	assert.Equal(t, []dfa.Warning{
		{Kind: dfa.WarnDuplicateState, Value: "q0"},
		{Kind: dfa.WarnDuplicateState, Value: "q2"},
		{Kind: dfa.WarnDuplicateSymbol, Value: "1"},
		{Kind: dfa.WarnDuplicateAccept, Value: "q2"},
	}, warnings)

	// The duplicates must not change behavior.
	clean, err := dfa.New(parityConfig())
	require.NoError(t, err)
	assert.Equal(t, clean.States(), m.States())
	assert.Equal(t, clean.Alphabet(), m.Alphabet())
	assert.Equal(t, clean.Transitions(), m.Transitions())
	for _, input := range []string{"", "1", "11", "0011", "0101"} {
		assert.Equal(t, clean.Test(input), m.Test(input), "input %q", input)
	}
}

func TestNew_ConstructionErrors(t *testing.T) {
	t.Run("missing entry", func(t *testing.T) {
		cfg := parityConfig()
		delete(cfg.Transitions, "q1")
		_, err := dfa.New(cfg)
		var target *dfa.MissingEntryError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, dfa.State("q1"), target.State)
		assert.Contains(t, err.Error(), `"q1"`)
	})

	t.Run("missing transition in full entry", func(t *testing.T) {
		cfg := parityConfig()
		cfg.Transitions["q2"] = dfa.Moves(map[dfa.Symbol]dfa.State{'0': "q3"})
		_, err := dfa.New(cfg)
		var target *dfa.MissingTransitionError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, dfa.State("q2"), target.State)
		assert.Equal(t, dfa.Symbol('1'), target.Symbol)
	})

	t.Run("unknown symbol in full entry", func(t *testing.T) {
		cfg := parityConfig()
		cfg.Transitions["q0"] = dfa.Moves(map[dfa.Symbol]dfa.State{'0': "q1", '1': "q2", 'x': "q0"})
		_, err := dfa.New(cfg)
		var target *dfa.UnknownSymbolError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, dfa.State("q0"), target.State)
		assert.Equal(t, "x", target.Key)
	})

	t.Run("unknown symbol in shorthand entry", func(t *testing.T) {
		cfg := trapConfig()
		cfg.Transitions["q0"] = dfa.Fallback(map[dfa.Symbol]dfa.State{'2': "q1"}, "e")
		_, err := dfa.New(cfg)
		var target *dfa.UnknownSymbolError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "2", target.Key)
	})

	t.Run("invalid target in full entry", func(t *testing.T) {
		cfg := parityConfig()
		cfg.Transitions["q3"] = dfa.Moves(map[dfa.Symbol]dfa.State{'0': "q2", '1': "nowhere"})
		_, err := dfa.New(cfg)
		var target *dfa.InvalidTargetError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, dfa.State("q3"), target.State)
		assert.Equal(t, dfa.Symbol('1'), target.Symbol)
		assert.Equal(t, dfa.State("nowhere"), target.Target)
		assert.Contains(t, err.Error(), `out of state "q3" on symbol '1'`)
	})

	t.Run("invalid target in shorthand entry", func(t *testing.T) {
		cfg := trapConfig()
		cfg.Transitions["q1"] = dfa.Fallback(map[dfa.Symbol]dfa.State{'1': "nowhere"}, "e")
		_, err := dfa.New(cfg)
		var target *dfa.InvalidTargetError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, dfa.State("nowhere"), target.Target)
	})

	t.Run("invalid default", func(t *testing.T) {
		cfg := trapConfig()
		cfg.Transitions["e"] = dfa.Fallback(nil, "void")
		_, err := dfa.New(cfg)
		var target *dfa.InvalidDefaultError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, dfa.State("e"), target.State)
		assert.Equal(t, dfa.State("void"), target.Default)
	})

	t.Run("invalid initial", func(t *testing.T) {
		cfg := parityConfig()
		cfg.Initial = "q9"
		_, err := dfa.New(cfg)
		var target *dfa.InvalidInitialError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, dfa.State("q9"), target.State)
	})

	t.Run("invalid accepting", func(t *testing.T) {
		cfg := parityConfig()
		cfg.Accepting = []dfa.State{"q2", "q9"}
		_, err := dfa.New(cfg)
		var target *dfa.InvalidAcceptError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, dfa.State("q9"), target.State)
	})

	t.Run("failure returns no machine", func(t *testing.T) {
		cfg := parityConfig()
		delete(cfg.Transitions, "q3")
		m, err := dfa.New(cfg)
		assert.Error(t, err)
		assert.Nil(t, m)
	})
}

func TestNew_FirstErrorFollowsStateOrder(t *testing.T) {
	// Both q1 and q3 are broken; the state set order decides which one is
	// reported, regardless of how the transitions map iterates.
	cfg := parityConfig()
	delete(cfg.Transitions, "q1")
	delete(cfg.Transitions, "q3")

	for range 20 {
		_, err := dfa.New(cfg)
		var target *dfa.MissingEntryError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, dfa.State("q1"), target.State)
	}
}

func TestNew_DoesNotAliasCallerInput(t *testing.T) {
	moves := map[dfa.Symbol]dfa.State{'0': "q1"}
	cfg := dfa.Config{
		States:   []dfa.State{"q0", "q1"},
		Alphabet: []dfa.Symbol{'0'},
		Transitions: map[dfa.State]dfa.Entry{
			"q0": dfa.Moves(moves),
			"q1": dfa.Fallback(nil, "q1"),
		},
		Initial:   "q0",
		Accepting: []dfa.State{"q1"},
	}
	m, err := dfa.New(cfg)
	require.NoError(t, err)

	// Mutating the caller's values after construction must not leak into
	// the machine.
	moves['0'] = "q0"
	cfg.States[0] = "zzz"
	cfg.Accepting[0] = "zzz"

	assert.Equal(t, []dfa.State{"q0", "q1"}, m.States())
	assert.Equal(t, dfa.State("q1"), m.Transitions()["q0"]['0'])
	assert.True(t, m.IsAccepting("q1"))
}

func TestMachine_AccessorsReturnCopies(t *testing.T) {
	m, err := dfa.New(parityConfig())
	require.NoError(t, err)

	states := m.States()
	states[0] = "mutated"
	assert.Equal(t, dfa.State("q0"), m.States()[0])

	alphabet := m.Alphabet()
	alphabet[0] = 'x'
	assert.Equal(t, dfa.Symbol('0'), m.Alphabet()[0])

	table := m.Transitions()
	table["q0"]['0'] = "mutated"
	assert.Equal(t, dfa.State("q1"), m.Transitions()["q0"]['0'])
}
