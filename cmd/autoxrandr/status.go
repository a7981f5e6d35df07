package main

import (
	"time"

	"github.com/sigreer/autoxrandr/internal/db"
	"github.com/sigreer/autoxrandr/internal/report"
	"github.com/spf13/cobra"
)

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the layout xrandr currently reports",
	Args:  cobra.NoArgs,
	RunE:  withApp(runCurrent),
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent save, apply and remove operations",
	Args:  cobra.NoArgs,
	RunE:  withApp(runHistory),
}

func init() {
	currentCmd.Flags().Bool("json", false, "Output as JSON")

	historyCmd.Flags().Int("limit", 20, "Maximum number of events to show")
	historyCmd.Flags().String("profile", "", "Only show events for this profile")
}

func runCurrent(cmd *cobra.Command, a *app, args []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")

	if jsonOut {
		snap, err := a.manager.Snapshot(cmd.Context())
		if err != nil {
			return err
		}
		return report.PrintJSON(cmd.OutOrStdout(), snap)
	}

	records, active, err := a.manager.Current(cmd.Context())
	if err != nil {
		return err
	}
	report.PrintDisplays(cmd.OutOrStdout(), records, active)
	return nil
}

func runHistory(cmd *cobra.Command, a *app, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	name, _ := cmd.Flags().GetString("profile")

	if a.history == nil {
		report.PrintHistory(cmd.OutOrStdout(), nil, time.Now())
		return nil
	}

	var events []*db.Event
	var err error
	if name != "" {
		events, err = a.history.EventsForProfile(name, limit)
	} else {
		events, err = a.history.RecentEvents(limit)
	}
	if err != nil {
		return err
	}

	report.PrintHistory(cmd.OutOrStdout(), events, time.Now())
	return nil
}

// lastApplied returns the most recent successful apply, or nil when history
// is off or unreadable
func lastApplied(a *app) *db.Event {
	if a.history == nil {
		return nil
	}
	last, err := a.history.LastApplied()
	if err != nil {
		a.log.Debug().Err(err).Msg("could not read last apply")
		return nil
	}
	return last
}
