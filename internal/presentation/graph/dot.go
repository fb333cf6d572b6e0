package graph

import (
	"fmt"
	"strings"

	"github.com/arvholm/espalier/pkg/dfa"
)

// GenerateDOT produces Graphviz dot syntax for the machine, using the
// double circle convention for accepting states. Sink states are drawn
// dashed. Parallel edges are merged the same way GenerateMermaid merges
// them.
func GenerateDOT(m *dfa.Machine) string {
	var sb strings.Builder
	sb.WriteString("digraph {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [shape=circle];\n")
	sb.WriteString("    __start [shape=point];\n")
	sb.WriteString(fmt.Sprintf("    __start -> %s;\n", quoteDOT(string(m.Initial()))))

	states := m.States()
	alphabet := m.Alphabet()
	table := m.Transitions()

	for _, state := range states {
		var attrs []string
		if m.IsAccepting(state) {
			attrs = append(attrs, "shape=doublecircle")
		}
		if m.IsSink(state) {
			attrs = append(attrs, "style=dashed")
		}
		if len(attrs) > 0 {
			sb.WriteString(fmt.Sprintf("    %s [%s];\n", quoteDOT(string(state)), strings.Join(attrs, ", ")))
		}
	}

	for _, state := range states {
		for _, e := range edgesFrom(table[state], alphabet) {
			sb.WriteString(fmt.Sprintf("    %s -> %s [label=%s];\n",
				quoteDOT(string(state)), quoteDOT(string(e.to)), quoteDOT(e.label)))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func quoteDOT(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
