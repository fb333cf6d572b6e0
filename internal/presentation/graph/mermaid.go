package graph

import (
	"fmt"
	"strings"

	"github.com/arvholm/espalier/pkg/dfa"
)

// Overlay contains dynamic run data to visualize on the diagram.
type Overlay struct {
	Visited []dfa.State
	Current dfa.State
}

// edge is one merged arrow in a rendered diagram.
type edge struct {
	to    dfa.State
	label string
}

// edgesFrom merges a state's outgoing transitions by target, keeping the
// alphabet order within each label and first-use order across targets.
func edgesFrom(row map[dfa.Symbol]dfa.State, alphabet []dfa.Symbol) []edge {
	var out []edge
	idx := make(map[dfa.State]int, len(row))
	for _, sym := range alphabet {
		to := row[sym]
		i, ok := idx[to]
		if !ok {
			i = len(out)
			idx[to] = i
			out = append(out, edge{to: to})
		}
		if out[i].label != "" {
			out[i].label += ","
		}
		out[i].label += string(sym)
	}
	return out
}

// GenerateMermaid produces a Mermaid stateDiagram-v2 string for the machine.
// It applies semantic styling:
// - Accepting: bold outline
// - Sink: dashed outline
// Edges sharing a source and target are merged into one arrow with the
// symbols joined by commas. It also applies overlay styles
// (Visited/Current) if provided.
func GenerateMermaid(m *dfa.Machine, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")

	states := m.States()
	alphabet := m.Alphabet()
	table := m.Transitions()

	sb.WriteString(fmt.Sprintf("    [*] --> %s\n", sanitizeMermaidID(string(m.Initial()))))

	for _, state := range states {
		// Sanitize ID for Mermaid
		safeID := sanitizeMermaidID(string(state))
		if safeID != string(state) {
			sb.WriteString(fmt.Sprintf("    %s: %s\n", safeID, state))
		}

		for _, e := range edgesFrom(table[state], alphabet) {
			sb.WriteString(fmt.Sprintf("    %s --> %s: %s\n", safeID, sanitizeMermaidID(string(e.to)), e.label))
		}
	}

	var accepting, sinks []string
	for _, state := range states {
		if m.IsAccepting(state) {
			accepting = append(accepting, sanitizeMermaidID(string(state)))
		}
		if m.IsSink(state) {
			sinks = append(sinks, sanitizeMermaidID(string(state)))
		}
	}
	if len(accepting) > 0 {
		sb.WriteString("\n    classDef accepting stroke-width:3px;\n")
		for _, id := range accepting {
			sb.WriteString(fmt.Sprintf("    class %s accepting;\n", id))
		}
	}
	if len(sinks) > 0 {
		sb.WriteString("    classDef sink stroke-dasharray: 5 5;\n")
		for _, id := range sinks {
			sb.WriteString(fmt.Sprintf("    class %s sink;\n", id))
		}
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, state := range overlay.Visited {
			safeID := sanitizeMermaidID(string(state))
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.Current != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(string(overlay.Current))))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
