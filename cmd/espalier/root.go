package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arvholm/espalier/pkg/definition"
	"github.com/arvholm/espalier/pkg/dfa"
)

var rootCmd = &cobra.Command{
	Use:   "espalier",
	Short: "Espalier is a registry and evaluator for deterministic finite automata",
	Long: `Espalier compiles machine definitions written in YAML or JSON into total
deterministic finite automata, answers membership queries over them and
serves a machine registry over HTTP and MCP.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// compileFile decodes and compiles the definition document at path.
// Warnings go to stderr so stdout stays clean for command output.
func compileFile(path string) (*dfa.Machine, error) {
	def, err := definition.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	machine, err := def.Compile(dfa.WithWarningHandler(func(w dfa.Warning) {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}))
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}
	return machine, nil
}
