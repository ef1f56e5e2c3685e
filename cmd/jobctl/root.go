package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "jobctl",
		Short:         "Preview and maintain aftermarket job schedules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&app.JSONOutput, "json", false, "Emit machine-readable JSON output")
	cmd.PersistentFlags().StringVar(&app.Timezone, "timezone", "", "Dealership IANA timezone (default AFTERMARKET_TIMEZONE or America/New_York)")
	cmd.PersistentFlags().StringVar(&app.ZoneLabel, "zone-label", "", "Label appended to rendered times")
	cmd.PersistentFlags().StringVar(&app.Now, "now", "", "Evaluate as of this instant (ISO or epoch ms)")

	cmd.AddCommand(newDisplayCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newSeedCmd(app))
	cmd.AddCommand(newSweepCmd(app))

	return cmd
}
