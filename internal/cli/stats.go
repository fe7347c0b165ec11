package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/reach/internal/stats"
)

func newStatsCmd() *cobra.Command {
	var timeframe, team string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard numbers",
		Long:  "Show visit, answer and response counts, the residence breakdown and visits per day for a timeframe (day, week, month or all).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, timeframe, team)
		},
	}

	cmd.Flags().StringVar(&timeframe, "timeframe", "all", "day, week, month or all")
	cmd.Flags().StringVar(&team, "team", "", "only count pins from this team")

	return cmd
}

func runStats(cmd *cobra.Command, timeframe, team string) error {
	tf, err := stats.ParseTimeframe(timeframe)
	if err != nil {
		return err
	}

	snap, err := newAPIClient().Stats(cmd.Context(), tf, team)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), snap)
	}

	return printSnapshot(cmd.OutOrStdout(), snap)
}
