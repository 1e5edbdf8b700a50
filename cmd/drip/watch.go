package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the store for out-of-band changes",
	Long: `Run the tracker loop, resyncing the preferred unit and the daily
total whenever another client changes the store. Stops on Ctrl-C.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := openApp(ctx)
		if err != nil {
			fatal("Failed to initialize drip", err)
		}
		defer app.Close()

		fmt.Println("Watching for store changes (Ctrl-C to stop)...")
		if err := app.Tracker.Run(ctx); err != nil && ctx.Err() == nil {
			fatal("Watch loop failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
