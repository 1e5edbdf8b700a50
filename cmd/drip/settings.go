package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/drip/pkg/adapters/sqlite"
	"github.com/aretw0/drip/pkg/core"
	"github.com/spf13/cobra"
)

var (
	setIncrement float64
	setGoal      float64
	setUnit      string
	setDays      string
)

// settingsCmd represents the settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change preferences",
	Long: `Show the current preferences, or change them via flags.
The preferred unit lives in the health store, not in the preference file:
changing it converts nothing, existing samples are re-read in the new unit.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, err := openApp(ctx)
		if err != nil {
			fatal("Failed to initialize drip", err)
		}
		defer app.Close()

		changed := false

		if cmd.Flags().Changed("increment") {
			if err := app.Prefs.SetIncrement(setIncrement); err != nil {
				fatal("Failed to set increment", err)
			}
			changed = true
		}
		if cmd.Flags().Changed("goal") {
			if err := app.Prefs.SetGoal(setGoal); err != nil {
				fatal("Failed to set goal", err)
			}
			changed = true
		}
		if cmd.Flags().Changed("unit") {
			store, ok := app.Store.(*sqlite.Store)
			if !ok {
				fatal("Failed to set unit", fmt.Errorf("store does not own a preferred unit"))
			}
			if err := store.SetPreferredUnit(ctx, core.Unit(setUnit)); err != nil {
				fatal("Failed to set unit", err)
			}
			if err := app.Tracker.SyncPreferredUnit(ctx); err != nil {
				fatal("Failed to adopt unit", err)
			}
			changed = true
		}
		if cmd.Flags().Changed("days") {
			days, err := parseDays(setDays)
			if err != nil {
				fatal("Invalid days", err)
			}
			if err := app.Prefs.SetDays(days); err != nil {
				fatal("Failed to set days", err)
			}
			changed = true
		}

		if changed {
			fmt.Println("Settings updated.")
		}

		fmt.Printf("unit:      %s\n", app.Tracker.Unit().Label())
		fmt.Printf("increment: %.1f\n", app.Prefs.Increment())
		fmt.Printf("goal:      %.1f\n", app.Prefs.Goal())
		if days := app.Prefs.Days(); len(days) > 0 {
			names := make([]string, len(days))
			for i, d := range days {
				names[i] = string(d)
			}
			fmt.Printf("days:      %s\n", strings.Join(names, ","))
		}
	},
}

func parseDays(s string) ([]core.Weekday, error) {
	if s == "" {
		return nil, nil
	}
	known := make(map[string]core.Weekday)
	for _, d := range core.Weekdays() {
		known[strings.ToLower(string(d))] = d
	}

	var days []core.Weekday
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		day, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		days = append(days, day)
	}
	return days, nil
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.Flags().Float64Var(&setIncrement, "increment", 0, "Preferred increment in the preferred unit")
	settingsCmd.Flags().Float64Var(&setGoal, "goal", 0, "Daily goal in the preferred unit")
	settingsCmd.Flags().StringVar(&setUnit, "unit", "", "Preferred unit (ml, L, fl oz)")
	settingsCmd.Flags().StringVar(&setDays, "days", "", "Reminder weekdays, comma separated (e.g. monday,wednesday)")
}
