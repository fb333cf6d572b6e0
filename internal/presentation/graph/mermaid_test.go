package graph_test

import (
	"strings"
	"testing"

	"github.com/arvholm/espalier/internal/presentation/graph"
	"github.com/arvholm/espalier/pkg/dfa"
)

func onesMachine(t *testing.T) *dfa.Machine {
	t.Helper()
	m, err := dfa.New(dfa.Config{
		Label:    "ones",
		States:   []dfa.State{"even", "odd"},
		Alphabet: []dfa.Symbol{'0', '1'},
		Transitions: map[dfa.State]dfa.Entry{
			"even": dfa.Moves(map[dfa.Symbol]dfa.State{'0': "even", '1': "odd"}),
			"odd":  dfa.Moves(map[dfa.Symbol]dfa.State{'0': "odd", '1': "even"}),
		},
		Initial:   "even",
		Accepting: []dfa.State{"odd"},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return m
}

func trapMachine(t *testing.T) *dfa.Machine {
	t.Helper()
	m, err := dfa.New(dfa.Config{
		Label:    "zeros",
		States:   []dfa.State{"ok", "e"},
		Alphabet: []dfa.Symbol{'0', '1'},
		Transitions: map[dfa.State]dfa.Entry{
			"ok": dfa.Moves(map[dfa.Symbol]dfa.State{'0': "ok", '1': "e"}),
			"e":  dfa.Fallback(nil, "e"),
		},
		Initial:   "ok",
		Accepting: []dfa.State{"ok"},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return m
}

func hyphenMachine(t *testing.T) *dfa.Machine {
	t.Helper()
	m, err := dfa.New(dfa.Config{
		States:   []dfa.State{"q-1"},
		Alphabet: []dfa.Symbol{'a'},
		Transitions: map[dfa.State]dfa.Entry{
			"q-1": dfa.Moves(map[dfa.Symbol]dfa.State{'a': "q-1"}),
		},
		Initial: "q-1",
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return m
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		machine  *dfa.Machine
		contains []string
	}{
		{
			name:    "Initial Arrow",
			machine: onesMachine(t),
			contains: []string{
				"stateDiagram-v2",
				"[*] --> even",
			},
		},
		{
			name:    "Merged Edges",
			machine: trapMachine(t),
			contains: []string{
				"ok --> ok: 0",
				"ok --> e: 1",
				"e --> e: 0,1",
			},
		},
		{
			name:    "Accepting Styling",
			machine: onesMachine(t),
			contains: []string{
				"classDef accepting stroke-width:3px;",
				"class odd accepting;",
			},
		},
		{
			name:    "Sink Styling",
			machine: trapMachine(t),
			contains: []string{
				"classDef sink stroke-dasharray: 5 5;",
				"class e sink;",
			},
		},
		{
			name:    "ID Sanitization",
			machine: hyphenMachine(t),
			contains: []string{
				"q_1: q-1",
				"q_1 --> q_1: a",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.machine, nil)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	got := graph.GenerateMermaid(onesMachine(t), &graph.Overlay{
		Visited: []dfa.State{"even", "odd", "even"},
		Current: "odd",
	})

	for _, want := range []string{
		"%% Overlay Styles",
		"class even visited;",
		"class odd visited;",
		"class odd current;",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
		}
	}

	if strings.Count(got, "class even visited;") != 1 {
		t.Errorf("Expected visited states to be deduplicated:\n%v", got)
	}
}
