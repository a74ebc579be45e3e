package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"notesapp/internal/client"
	"notesapp/internal/config"
	"notesapp/internal/store"
)

var (
	verbose bool
	apiURL  string
	output  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notesctl",
	Short: "Manage notes on a note service from the command line",
	Long: `notesctl loads every note from the note service into a local store,
applies one change or filter, and prints the result.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		switch output {
		case "text", "json", "yaml":
			return nil
		default:
			return fmt.Errorf("unknown output format %q (want text, json or yaml)", output)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	config.LoadEnvFiles()

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", config.LoadApp().APIURL, "Base URL of the note service")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")
}

// openStore builds a store on the note service and loads it.
func openStore(ctx context.Context) (*store.Store, error) {
	s := store.New(client.New(apiURL), slog.Default())
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
