package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arvholm/espalier/internal/presentation/tui"
)

var describeCmd = &cobra.Command{
	Use:   "describe -f FILE",
	Short: "Summarize a machine definition",
	Long: `Compiles the definition and prints a summary of its states, alphabet and
transition table. The summary is rendered as styled markdown when stdout
is a terminal and as plain markdown otherwise.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("file")

		machine, err := compileFile(path)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		markdown := tui.MachineSummary(machine)
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Print(markdown)
			return
		}

		render := tui.NewRenderer()
		styled, err := render(markdown)
		if err != nil {
			// Fall back to the raw markdown rather than failing the command.
			fmt.Print(markdown)
			return
		}
		fmt.Print(styled)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)

	describeCmd.Flags().StringP("file", "f", "", "Machine definition document")
	describeCmd.MarkFlagRequired("file")
}
