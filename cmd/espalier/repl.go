package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arvholm/espalier/internal/cli"
)

var replCmd = &cobra.Command{
	Use:   "repl -f FILE",
	Short: "Evaluate a machine interactively",
	Long: `Loads a definition and feeds it input symbols line by line through a
streaming cursor, so the machine keeps its state between lines. Type
:state for the current verdict, :reset to start over and :quit to leave.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("file")
		verbose, _ := cmd.Flags().GetBool("verbose")

		err := cli.RunREPL(cli.REPLOptions{
			Path:    path,
			Verbose: verbose,
			Banner:  term.IsTerminal(int(os.Stdout.Fd())),
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringP("file", "f", "", "Machine definition document")
	replCmd.MarkFlagRequired("file")
}
