package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arvholm/espalier/internal/presentation/tui"
)

var testCmd = &cobra.Command{
	Use:   "test -f FILE INPUT...",
	Short: "Report whether the machine accepts each input",
	Long: `Runs the machine over each input string and prints the verdict. Inputs
with characters outside the alphabet are rejected rather than reported as
errors. Exits non-zero when any input is rejected.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("file")

		machine, err := compileFile(path)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		rejected := false
		for _, input := range args {
			accepted := machine.Test(input)
			fmt.Printf("%q: %s\n", input, tui.Verdict(accepted))
			if !accepted {
				rejected = true
			}
		}
		if rejected {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(testCmd)

	testCmd.Flags().StringP("file", "f", "", "Machine definition document")
	testCmd.MarkFlagRequired("file")
}
