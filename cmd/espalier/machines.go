package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arvholm/espalier/pkg/ports"
)

var machinesCmd = &cobra.Command{
	Use:   "machines",
	Short: "Manage machines in a persistent store",
	Long:  `List, inspect, and remove machine definitions stored in Redis or SQLite.`,
}

var machinesLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored machines",
	Run: func(cmd *cobra.Command, args []string) {
		store, closeStore := getMachineStore(cmd)
		defer closeStore()

		names, err := store.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing machines: %v\n", err)
			os.Exit(1)
		}

		if len(names) == 0 {
			fmt.Println("No machines stored.")
			return
		}

		fmt.Println("Stored machines:")
		for _, name := range names {
			fmt.Println("- " + name)
		}
	},
}

var machinesInspectCmd = &cobra.Command{
	Use:   "inspect <name>",
	Short: "Inspect a stored machine definition",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		store, closeStore := getMachineStore(cmd)
		defer closeStore()

		stored, err := store.Load(cmd.Context(), name)
		if err != nil {
			fmt.Printf("Error loading machine '%s': %v\n", name, err)
			os.Exit(1)
		}

		// Pretty print JSON
		data, err := json.MarshalIndent(stored, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling definition: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

var machinesRmCmd = &cobra.Command{
	Use:   "rm <name>...",
	Short: "Remove one or more stored machines",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, closeStore := getMachineStore(cmd)
		defer closeStore()

		hasError := false
		for _, name := range args {
			if err := store.Delete(cmd.Context(), name); err != nil {
				fmt.Printf("Error removing '%s': %v\n", name, err)
				hasError = true
			} else {
				fmt.Printf("Removed machine '%s'\n", name)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(machinesCmd)
	machinesCmd.AddCommand(machinesLsCmd)
	machinesCmd.AddCommand(machinesInspectCmd)
	machinesCmd.AddCommand(machinesRmCmd)

	machinesCmd.PersistentFlags().String("redis", "", "Redis address for the machine store (e.g. localhost:6379)")
	machinesCmd.PersistentFlags().String("db", "", "SQLite database file for the machine store")
}

// getMachineStore opens the store named by the flags. The in-memory fallback
// is useless here, so a persistent store flag is required.
func getMachineStore(cmd *cobra.Command) (ports.MachineStore, func() error) {
	redisAddr, _ := cmd.Flags().GetString("redis")
	dbPath, _ := cmd.Flags().GetString("db")
	if redisAddr == "" && dbPath == "" {
		fmt.Println("Error: point --redis or --db at a persistent store.")
		os.Exit(1)
	}

	store, closeStore, err := openStore(cmd)
	if err != nil {
		fmt.Printf("Error opening store: %v\n", err)
		os.Exit(1)
	}
	return store, closeStore
}
