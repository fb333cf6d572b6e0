package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arvholm/espalier"
	"github.com/arvholm/espalier/internal/logging"
	"github.com/arvholm/espalier/internal/presentation/tui"
	"github.com/arvholm/espalier/pkg/adapters/file"
	httpAdapter "github.com/arvholm/espalier/pkg/adapters/http"
	"github.com/arvholm/espalier/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP registry server",
	Long: `Starts the machine registry as a JSON API over HTTP, backed by the store
chosen with --redis or --db (in-memory by default) and optionally
preloaded from a directory of definition documents.`,
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("addr")
		dir, _ := cmd.Flags().GetString("dir")
		verbose, _ := cmd.Flags().GetBool("verbose")

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := logging.New(level)

		store, closeStore, err := openStore(cmd)
		if err != nil {
			fmt.Printf("Error opening store: %v\n", err)
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
				fmt.Printf("Error opening definitions directory: %v\n", err)
				os.Exit(1)
			}
			engineOpts = append(engineOpts, espalier.WithLoader(loader))
		}

		engine := espalier.New(engineOpts...)

		if dir != "" {
			n, err := engine.Preload(cmd.Context())
			if err != nil {
				fmt.Printf("Error preloading definitions: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Preloaded %d machines from %s\n", n, dir)
		}

		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner(espalier.Version)
		}

		handler := httpAdapter.NewHandler(engine.Registry(),
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetrics(observability.New()),
		)

		srv := &http.Server{
			Addr:    addr,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Espalier server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Espalier server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("dir", "", "Directory of definition documents to preload")
	serveCmd.Flags().String("redis", "", "Redis address for the machine store (e.g. localhost:6379)")
	serveCmd.Flags().String("db", "", "SQLite database file for the machine store")
}
