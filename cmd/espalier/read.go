package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read -f FILE INPUT",
	Short: "Run the machine over an input and print the final state",
	Long: `Scans the input from the initial state and prints the state the machine
ends in. The scan stops early when a sink state is entered. A character
outside the alphabet fails the command.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("file")
		trace, _ := cmd.Flags().GetBool("trace")
		input := args[0]

		machine, err := compileFile(path)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if trace {
			visited, err := machine.Trace(input)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			path := make([]string, len(visited))
			for i, state := range visited {
				path[i] = string(state)
			}
			fmt.Println(strings.Join(path, " -> "))
			return
		}

		state, err := machine.Read(input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(state)
	},
}

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().StringP("file", "f", "", "Machine definition document")
	readCmd.MarkFlagRequired("file")
	readCmd.Flags().Bool("trace", false, "Print every state visited instead of just the final one")
}
