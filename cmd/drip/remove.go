package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:     "remove",
	Aliases: []string{"undo"},
	Short:   "Remove the most recent entry logged by this app",
	Long: `Remove today's most recent entry that was written by this app.
Entries from other sources are never touched. A no-op when nothing
was logged today.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, err := openApp(ctx)
		if err != nil {
			fatal("Failed to initialize drip", err)
		}
		defer app.Close()

		// The undo target is whatever the store currently reports, not a
		// remembered value.
		if err := app.Tracker.RefreshMostRecent(ctx); err != nil {
			fatal("Failed to look up most recent entry", err)
		}
		if app.Tracker.MostRecentEntry() == nil {
			fmt.Println("Nothing to remove today.")
			return
		}

		if err := app.Tracker.Remove(ctx); err != nil {
			fatal("Failed to remove entry", err)
		}
		if err := app.Tracker.RefreshAggregate(ctx); err != nil {
			fatal("Failed to refresh total", err)
		}
		if err := app.Tracker.RefreshMostRecent(ctx); err != nil {
			fatal("Failed to refresh most recent entry", err)
		}

		agg := app.Tracker.Aggregate()
		fmt.Printf("Removed. Today: %.1f %s\n", agg.Total, agg.Unit.Label())
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
