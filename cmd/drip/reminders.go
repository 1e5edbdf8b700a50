package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/drip"
	"github.com/aretw0/drip/pkg/core"
	"github.com/spf13/cobra"
)

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Manage hourly water reminders",
	Long: `Manage the hourly reminder schedule. Reminders fire once per hour
between the configured start and end times. Changing anything reinstalls
the whole schedule.`,
}

var remindersEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable reminders (prompts for notification permission)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, err := openApp(ctx)
		if err != nil {
			fatal("Failed to initialize drip", err)
		}
		defer app.Close()

		if err := app.Scheduler.Enable(ctx); err != nil {
			if errors.Is(err, core.ErrNotificationsDenied) {
				fmt.Println("Notification permission is denied. Enable notifications for drip in your system settings and try again.")
				return
			}
			fatal("Failed to enable reminders", err)
		}

		printSchedule(ctx, app)
	},
}

var remindersDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable reminders and cancel all pending triggers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, err := openApp(ctx)
		if err != nil {
			fatal("Failed to initialize drip", err)
		}
		defer app.Close()

		if err := app.Scheduler.Disable(ctx); err != nil {
			fatal("Failed to disable reminders", err)
		}
		fmt.Println("Reminders disabled.")
	},
}

var remindersWindowCmd = &cobra.Command{
	Use:   "window [start] [end]",
	Short: "Set the daily reminder window (e.g. 08:30 18:00)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		start, err := core.ParseTimeOfDay(args[0])
		if err != nil {
			fatal("Invalid start time", err)
		}
		end, err := core.ParseTimeOfDay(args[1])
		if err != nil {
			fatal("Invalid end time", err)
		}

		ctx := context.Background()
		app, err := openApp(ctx)
		if err != nil {
			fatal("Failed to initialize drip", err)
		}
		defer app.Close()

		if err := app.Scheduler.SetWindow(ctx, start, end); err != nil {
			fatal("Failed to set window", err)
		}

		printSchedule(ctx, app)
	},
}

var remindersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the pending reminder triggers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, err := openApp(ctx)
		if err != nil {
			fatal("Failed to initialize drip", err)
		}
		defer app.Close()

		printSchedule(ctx, app)
	},
}

func printSchedule(ctx context.Context, app *drip.App) {
	// A denial flips the enabled preference off before we render anything.
	if denied, err := app.Scheduler.CheckAuthorization(ctx); err != nil {
		fatal("Failed to check notification authorization", err)
	} else if denied {
		fmt.Println("Notification permission is denied; reminders are off.")
		return
	}

	window := app.Scheduler.Window()
	if !window.Enabled {
		fmt.Println("Reminders are disabled.")
		return
	}

	triggers, err := app.Scheduler.Pending(ctx)
	if err != nil {
		fatal("Failed to list pending reminders", err)
	}

	fmt.Printf("Reminders on, window %s - %s:\n", window.Start, window.End)
	for _, t := range triggers {
		fmt.Printf("  %02d:%02d  %s\n", t.Hour, t.Minute, t.Title)
	}
}

func init() {
	rootCmd.AddCommand(remindersCmd)
	remindersCmd.AddCommand(remindersEnableCmd)
	remindersCmd.AddCommand(remindersDisableCmd)
	remindersCmd.AddCommand(remindersWindowCmd)
	remindersCmd.AddCommand(remindersListCmd)
}
