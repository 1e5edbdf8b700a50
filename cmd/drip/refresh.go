package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force a full re-sync from the store",
	Long: `Re-read the preferred unit, today's total and the most recent entry
from the store. Useful after another client changed the data.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, err := openApp(ctx)
		if err != nil {
			fatal("Failed to initialize drip", err)
		}
		defer app.Close()

		if err := app.Tracker.SyncPreferredUnit(ctx); err != nil {
			fatal("Failed to sync preferred unit", err)
		}
		if err := app.Tracker.RefreshAggregate(ctx); err != nil {
			fatal("Failed to refresh total", err)
		}
		if err := app.Tracker.RefreshMostRecent(ctx); err != nil {
			fatal("Failed to refresh most recent entry", err)
		}

		agg := app.Tracker.Aggregate()
		fmt.Printf("Synced. Today: %.1f %s\n", agg.Total, agg.Unit.Label())
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
