package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const parityYAML = `name: parity
states: [even, odd]
alphabet: ["0", "1"]
initial: even
accepting: [odd]
transitions:
  even: {"0": even, "1": odd}
  odd: {"0": odd, "1": even}
`

func writeParity(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parity.yaml")
	if err := os.WriteFile(path, []byte(parityYAML), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

func TestRunREPL_Scripted(t *testing.T) {
	in := strings.NewReader("1\n0x0\n:state\n:reset\n:quit\n")
	var out bytes.Buffer

	err := RunREPL(REPLOptions{Path: writeParity(t), In: in, Out: &out})
	if err != nil {
		t.Fatalf("REPL failed: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "Machine 'parity'") {
		t.Errorf("Expected intro line, got %q", output)
	}
	if !strings.Contains(output, "accepted") {
		t.Error("Expected an accepted verdict after feeding 1")
	}
	if !strings.Contains(output, "outside the alphabet") {
		t.Error("Expected rejection message for symbol x")
	}
	if !strings.Contains(output, "Back at 'even'") {
		t.Error("Expected reset message")
	}
	if !strings.Contains(output, "Bye!") {
		t.Error("Expected quit message")
	}
}

func TestRunREPL_KeepsStateBetweenLines(t *testing.T) {
	// Two lines of one symbol each: the cursor must carry odd parity over.
	in := strings.NewReader("1\n1\n")
	var out bytes.Buffer

	if err := RunREPL(REPLOptions{Path: writeParity(t), In: in, Out: &out}); err != nil {
		t.Fatalf("REPL failed: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "Stopped at 'even' after 2 symbols.") {
		t.Errorf("Expected session to end back at even, got %q", output)
	}
}

func TestRunREPL_MissingFile(t *testing.T) {
	err := RunREPL(REPLOptions{
		Path: filepath.Join(t.TempDir(), "missing.yaml"),
		In:   strings.NewReader(""),
		Out:  &bytes.Buffer{},
	})
	if err == nil {
		t.Fatal("Expected error for missing definition file")
	}
}
