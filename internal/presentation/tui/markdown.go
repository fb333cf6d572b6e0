package tui

import (
	"fmt"
	"strings"

	"github.com/arvholm/espalier/pkg/dfa"
)

// MachineSummary renders a machine as a markdown document. The describe
// command feeds it through the glamour renderer when stdout is a terminal
// and prints it raw otherwise.
func MachineSummary(m *dfa.Machine) string {
	var b strings.Builder

	label := m.Label()
	if label == "" {
		label = "machine"
	}
	fmt.Fprintf(&b, "# %s\n\n", label)

	syms := make([]string, len(m.Alphabet()))
	for i, s := range m.Alphabet() {
		syms[i] = fmt.Sprintf("`%s`", string(s))
	}
	fmt.Fprintf(&b, "%d states over alphabet %s, starting at `%s`.\n\n",
		len(m.States()), strings.Join(syms, " "), m.Initial())

	b.WriteString("## States\n\n")
	b.WriteString("| State | Accepting | Sink |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, state := range m.States() {
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", state, mark(m.IsAccepting(state)), mark(m.IsSink(state)))
	}

	b.WriteString("\n## Transitions\n\n")
	b.WriteString("| From | Symbol | To |\n")
	b.WriteString("| --- | --- | --- |\n")
	transitions := m.Transitions()
	for _, state := range m.States() {
		row := transitions[state]
		for _, sym := range m.Alphabet() {
			fmt.Fprintf(&b, "| `%s` | `%s` | `%s` |\n", state, string(sym), row[sym])
		}
	}
	return b.String()
}

func mark(set bool) string {
	if set {
		return "yes"
	}
	return ""
}
