package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arvholm/espalier/pkg/ports/tests"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
}

const toggleYAML = `
name: toggle
states: ["off", "on"]
alphabet: ["t"]
initial: "off"
accepting: ["on"]
transitions:
  "off": {"t": "on"}
  "on": {"t": "off"}
`

const zerosJSON = `{
  "name": "zeros",
  "states": ["ok", "trap"],
  "alphabet": ["0", "1"],
  "initial": "ok",
  "accepting": ["ok"],
  "transitions": {
    "ok": [{"0": "ok"}, "trap"],
    "trap": [null, "trap"]
  }
}`

func TestFileLoader_Contract(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "toggle.yaml", toggleYAML)
	writeFixture(t, dir, "zeros.json", zerosJSON)
	writeFixture(t, dir, "notes.txt", "not a definition")

	loader, err := NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	tests.DefinitionLoaderContractTest(t, loader, []string{"toggle", "zeros"})
}

func TestFileLoader_IndexesByDeclaredName(t *testing.T) {
	dir := t.TempDir()
	// The filename and the declared name disagree on purpose.
	writeFixture(t, dir, "machine-01.yaml", toggleYAML)

	loader, err := NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	def, err := loader.Get(context.Background(), "toggle")
	if err != nil {
		t.Fatalf("Get(toggle) error = %v", err)
	}
	if def.Name != "toggle" {
		t.Errorf("Name = %q, want toggle", def.Name)
	}

	if _, err := loader.Get(context.Background(), "machine-01"); err == nil {
		t.Error("expected filename lookup to miss")
	}
}

func TestNewLoader_FailsFast(t *testing.T) {
	t.Run("broken document", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, "bad.yaml", "states: [a\n")
		if _, err := NewLoader(dir); err == nil {
			t.Fatal("expected decode error")
		}
	})

	t.Run("duplicate names", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, "a.yaml", toggleYAML)
		writeFixture(t, dir, "b.yaml", toggleYAML)
		if _, err := NewLoader(dir); err == nil {
			t.Fatal("expected duplicate name error")
		}
	})

	t.Run("unnamed document", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, "anon.yaml", "states: [a]\nalphabet: [\"0\"]\n")
		if _, err := NewLoader(dir); err == nil {
			t.Fatal("expected unnamed definition error")
		}
	})
}

func TestLoader_Reload(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "toggle.yaml", toggleYAML)

	loader, err := NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	writeFixture(t, dir, "zeros.json", zerosJSON)
	if err := loader.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	names, err := loader.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) != 2 {
		t.Errorf("names = %v, want toggle and zeros", names)
	}
}
