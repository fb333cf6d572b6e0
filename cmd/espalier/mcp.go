package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arvholm/espalier"
	"github.com/arvholm/espalier/internal/logging"
	"github.com/arvholm/espalier/pkg/adapters/file"
	"github.com/arvholm/espalier/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the machine registry as an MCP server so AI agents can register,
query and visualize machines as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		dir, _ := cmd.Flags().GetString("dir")
		verbose, _ := cmd.Flags().GetBool("verbose")

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		// The logger writes to stderr, keeping stdout free for JSON-RPC.
		logger := logging.New(level)

		store, closeStore, err := openStore(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()

		engineOpts := []espalier.Option{
			espalier.WithStore(store),
			espalier.WithLogger(logger),
		}
		if dir != "" {
			loader, err := file.NewLoader(dir)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error opening definitions directory: %v\n", err)
				os.Exit(1)
			}
			engineOpts = append(engineOpts, espalier.WithLoader(loader))
		}

		engine := espalier.New(engineOpts...)

		if dir != "" {
			n, err := engine.Preload(cmd.Context())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error preloading definitions: %v\n", err)
				os.Exit(1)
			}
			logger.Info("Machines preloaded", "count", n, "dir", dir)
		}

		srv := mcp.NewServer(engine.Registry(), mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			logger.Info("Starting Espalier MCP server (stdio)")
			if err := srv.ServeStdio(); err != nil {
				logger.Error("MCP server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			logger.Info("Starting Espalier MCP server (SSE)", "port", port)

			// Create a context that cancels on interrupt signal
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				// Ignore server closed error if it was caused by context cancellation
				if err != http.ErrServerClosed {
					logger.Error("MCP server execution failed", "error", err)
					os.Exit(1)
				}
			}
			logger.Info("MCP server stopped gracefully")
		default:
			fmt.Fprintf(os.Stderr, "Unknown transport: %s. Supported: stdio, sse\n", transport)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().String("dir", "", "Directory of definition documents to preload")
	mcpCmd.Flags().String("redis", "", "Redis address for the machine store (e.g. localhost:6379)")
	mcpCmd.Flags().String("db", "", "SQLite database file for the machine store")
}
