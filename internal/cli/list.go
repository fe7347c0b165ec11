package cli

import (
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var team string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all pins",
		Long:  "List recorded pins, newest first, optionally for a single team.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, team)
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "only show pins from this team")

	return cmd
}

func runList(cmd *cobra.Command, team string) error {
	pins, err := newAPIClient().ListPins(cmd.Context(), team)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), pins)
	}

	return printPinTable(cmd.OutOrStdout(), pins)
}
