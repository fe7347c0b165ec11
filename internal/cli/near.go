package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNearCmd() *cobra.Command {
	var lat, lon, radius float64

	cmd := &cobra.Command{
		Use:   "near --lat <lat> --lon <lon>",
		Short: "List pins near a point",
		Long:  "List pins within --radius meters of a coordinate, nearest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNear(cmd, lat, lon, radius)
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees (required)")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in degrees (required)")
	cmd.Flags().Float64Var(&radius, "radius", 500, "search radius in meters")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")

	return cmd
}

func runNear(cmd *cobra.Command, lat, lon, radius float64) error {
	if radius <= 0 {
		return fmt.Errorf("radius must be positive")
	}

	near, err := newAPIClient().Near(cmd.Context(), lat, lon, radius)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), near)
	}

	return printNearTable(cmd.OutOrStdout(), near)
}
