package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [amount]",
	Short: "Log a water intake entry",
	Long: `Log a water intake entry in the preferred unit. With no amount (or 0)
the preferred increment is used. The new daily total is re-read from the
store after the write.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var amount float64
		if len(args) == 1 {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				fatal("Invalid amount", err)
			}
			amount = v
		}

		ctx := context.Background()
		app, err := openApp(ctx)
		if err != nil {
			fatal("Failed to initialize drip", err)
		}
		defer app.Close()

		if err := app.Tracker.Add(ctx, amount); err != nil {
			fatal("Failed to log entry", err)
		}
		if err := app.Tracker.RefreshAggregate(ctx); err != nil {
			fatal("Failed to refresh total", err)
		}
		if err := app.Tracker.RefreshMostRecent(ctx); err != nil {
			fatal("Failed to refresh most recent entry", err)
		}

		agg := app.Tracker.Aggregate()
		fmt.Printf("Logged. Today: %.1f %s\n", agg.Total, agg.Unit.Label())
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
