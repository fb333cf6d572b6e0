package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arvholm/espalier/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph -f FILE",
	Short: "Export the machine as a diagram",
	Long: `Compiles the definition and outputs a Mermaid state diagram (default) or
a Graphviz DOT digraph. Accepting states are highlighted and sink states
are dashed.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("file")
		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("output")

		machine, err := compileFile(path)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		var output string
		switch format {
		case "mermaid":
			output = graph.GenerateMermaid(machine, nil)
		case "dot":
			output = graph.GenerateDOT(machine)
		default:
			fmt.Printf("Unknown format %q, want mermaid or dot\n", format)
			os.Exit(1)
		}

		if outPath != "" {
			if err := os.WriteFile(outPath, []byte(output), 0o644); err != nil {
				fmt.Printf("Error writing %s: %v\n", outPath, err)
				os.Exit(1)
			}
			fmt.Printf("Wrote %s\n", outPath)
			return
		}
		fmt.Print(output)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringP("file", "f", "", "Machine definition document")
	graphCmd.MarkFlagRequired("file")
	graphCmd.Flags().String("format", "mermaid", "Output format: 'mermaid' or 'dot'")
	graphCmd.Flags().StringP("output", "o", "", "Write the diagram to a file instead of stdout")
}
