package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arvholm/espalier/internal/validator"
	"github.com/arvholm/espalier/pkg/adapters/file"
	"github.com/arvholm/espalier/pkg/definition"
	"github.com/arvholm/espalier/pkg/dfa"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file|dir]",
	Short: "Check machine definitions for construction problems",
	Long: `Decodes the given definition document, or every document in the given
directory, and compiles each one. Duplicate declarations are reported as
warnings and unreachable or doomed states as notes; the first construction
error fails the command.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd.Context(), args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Machine definitions are valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(ctx context.Context, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	info, err := os.Stat(target)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return validateOne(target, nil)
	}

	loader, err := file.NewLoader(target)
	if err != nil {
		return err
	}
	names, err := loader.List(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no definition documents found in %s", target)
	}
	for _, name := range names {
		def, err := loader.Get(ctx, name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := validateOne(name, def); err != nil {
			return err
		}
	}
	return nil
}

// validateOne compiles a single definition, reading it from path when def is
// nil, and prints a summary line on success.
func validateOne(path string, def *definition.Definition) error {
	var err error
	if def == nil {
		def, err = definition.DecodeFile(path)
		if err != nil {
			return err
		}
	}

	machine, err := def.Compile(dfa.WithWarningHandler(func(w dfa.Warning) {
		fmt.Printf("warning: %s: %s\n", path, w)
	}))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fmt.Printf("✔ %s: %d states, %d symbols\n", path, len(machine.States()), len(machine.Alphabet()))
	for _, finding := range validator.Analyze(machine) {
		fmt.Printf("note: %s: %s\n", path, finding)
	}
	return nil
}
