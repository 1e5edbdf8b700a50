package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/drip"
	"github.com/spf13/cobra"
)

var (
	verbose  bool
	dataPath string
	source   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "drip",
	Short: "A headless daily water tracker with reminders",
	Long: `Drip logs water intake samples into a local health store and keeps
a reminder schedule in sync with your preferences. The store is the single
source of truth: every command re-reads totals after writing.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// openApp wires a full drip instance rooted at the configured data directory.
// Every subcommand goes through here so the flag surface stays uniform.
func openApp(ctx context.Context) (*drip.App, error) {
	path := dataPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".drip")
	}

	opts := []drip.Option{
		drip.WithLogger(slog.Default()),
	}
	if source != "" {
		opts = append(opts, drip.WithSource(source))
	}

	return drip.New(ctx, path, opts...)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataPath, "path", "", "Data directory (defaults to ~/.drip)")
	rootCmd.PersistentFlags().StringVar(&source, "source", "", "Origin name recorded with each entry")
}
