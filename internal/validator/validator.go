// Package validator analyzes compiled machines for structural problems
// that are legal but usually unintended.
package validator

import (
	"fmt"

	"github.com/arvholm/espalier/pkg/dfa"
)

// FindingKind classifies an analysis finding.
type FindingKind string

const (
	// FindingUnreachable marks a state no input can ever reach.
	FindingUnreachable FindingKind = "unreachable-state"
	// FindingDoomed marks a reachable state from which no accepting state
	// can be reached. Declared sinks are excluded; their finality is
	// already explicit in the machine.
	FindingDoomed FindingKind = "doomed-state"
)

// Finding is one structural observation about a machine.
type Finding struct {
	Kind  FindingKind
	State dfa.State
}

func (f Finding) String() string {
	switch f.Kind {
	case FindingUnreachable:
		return fmt.Sprintf("state '%s' is unreachable from the initial state", f.State)
	case FindingDoomed:
		return fmt.Sprintf("state '%s' can never reach an accepting state", f.State)
	default:
		return fmt.Sprintf("state '%s': %s", f.State, f.Kind)
	}
}

// Analyze crawls the transition table and reports unreachable and doomed
// states. Findings follow the machine's state order, unreachable states
// first. A machine with no findings is structurally clean.
func Analyze(m *dfa.Machine) []Finding {
	states := m.States()

	forward := make(map[dfa.State][]dfa.State, len(states))
	reverse := make(map[dfa.State][]dfa.State, len(states))
	for from, row := range m.Transitions() {
		for _, to := range row {
			forward[from] = append(forward[from], to)
			reverse[to] = append(reverse[to], from)
		}
	}

	reached := crawl(forward, m.Initial())
	canAccept := crawl(reverse, m.Accepting()...)

	var findings []Finding
	for _, s := range states {
		if !reached[s] {
			findings = append(findings, Finding{Kind: FindingUnreachable, State: s})
		}
	}
	for _, s := range states {
		if reached[s] && !canAccept[s] && !m.IsSink(s) {
			findings = append(findings, Finding{Kind: FindingDoomed, State: s})
		}
	}
	return findings
}

// crawl walks the adjacency lists breadth-first from the seed states and
// returns every state visited.
func crawl(adj map[dfa.State][]dfa.State, seeds ...dfa.State) map[dfa.State]bool {
	visited := make(map[dfa.State]bool, len(adj))
	queue := append([]dfa.State(nil), seeds...)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		for _, next := range adj[current] {
			if !visited[next] {
				queue = append(queue, next)
			}
		}
	}
	return visited
}
