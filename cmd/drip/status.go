package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/drip/pkg/core"
	"github.com/spf13/cobra"
)

var (
	statusJSON bool
)

type statusOutput struct {
	Unit       string       `json:"unit"`
	Total      float64      `json:"total"`
	Goal       float64      `json:"goal"`
	Increment  float64      `json:"increment"`
	MostRecent *core.Entry  `json:"mostRecent,omitempty"`
	Window     windowOutput `json:"reminderWindow"`
}

type windowOutput struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's intake total and preferences",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, err := openApp(ctx)
		if err != nil {
			fatal("Failed to initialize drip", err)
		}
		defer app.Close()

		if err := app.Tracker.RefreshAggregate(ctx); err != nil {
			fatal("Failed to read today's total", err)
		}
		if err := app.Tracker.RefreshMostRecent(ctx); err != nil {
			fatal("Failed to read most recent entry", err)
		}

		agg := app.Tracker.Aggregate()
		window := app.Scheduler.Window()
		out := statusOutput{
			Unit:       agg.Unit.Label(),
			Total:      agg.Total,
			Goal:       app.Prefs.Goal(),
			Increment:  app.Prefs.Increment(),
			MostRecent: app.Tracker.MostRecentEntry(),
			Window: windowOutput{
				Enabled: window.Enabled,
				Start:   window.Start.String(),
				End:     window.End.String(),
			},
		}

		if statusJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(out); err != nil {
				fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			return
		}

		fmt.Printf("Today: %.1f %s", out.Total, out.Unit)
		if out.Goal > 0 {
			fmt.Printf(" / %.1f %s (%.0f%%)", out.Goal, out.Unit, 100*out.Total/out.Goal)
		}
		fmt.Println()

		if out.MostRecent != nil {
			fmt.Printf("Last entry: %.1f %s at %s\n",
				out.MostRecent.Value,
				out.MostRecent.Unit.Label(),
				out.MostRecent.End.Format(time.Kitchen))
		}

		state := "off"
		if out.Window.Enabled {
			state = "on"
		}
		fmt.Printf("Reminders: %s (%s - %s)\n", state, out.Window.Start, out.Window.End)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
}
