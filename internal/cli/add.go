package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/reach/internal/client"
	"github.com/evcraddock/reach/internal/pin"
)

type addOptions struct {
	lat   float64
	lon   float64
	notes string
}

func newAddCmd() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add <residence> <answer> [response] --lat <lat> --lon <lon>",
		Short: "Drop a pin for a visit",
		Long: fmt.Sprintf(`Record a visit at a coordinate.

Coordinates are flags so negative values parse: --lat -33.8688 --lon 151.2093.

Residence: %s.
Answer:    %s.
Response:  %s (default positive; ignored when unanswered).`,
			valueList(pin.ResidenceTypes), valueList(pin.AnswerStatuses), valueList(pin.ResponseTypes)),
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, args, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "latitude in degrees (required)")
	cmd.Flags().Float64Var(&opts.lon, "lon", 0, "longitude in degrees (required)")
	cmd.Flags().StringVar(&opts.notes, "notes", "", "free-form notes about the visit")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")

	return cmd
}

// valueList joins enum values for help text.
func valueList[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// parsePinArgs validates the positional arguments of add.
func parsePinArgs(args []string, opts addOptions) (client.PinRequest, error) {
	residence, ok := pin.LookupResidenceType(args[0])
	if !ok {
		return client.PinRequest{}, fmt.Errorf("invalid residence type: %s", args[0])
	}
	answer, ok := pin.LookupAnswerStatus(args[1])
	if !ok {
		return client.PinRequest{}, fmt.Errorf("invalid answer status: %s", args[1])
	}

	req := client.PinRequest{
		Latitude:      opts.lat,
		Longitude:     opts.lon,
		ResidenceType: string(residence),
		AnswerStatus:  string(answer),
		Notes:         opts.notes,
	}
	if len(args) == 3 {
		response, ok := pin.LookupResponseType(args[2])
		if !ok {
			return client.PinRequest{}, fmt.Errorf("invalid response type: %s", args[2])
		}
		req.ResponseType = string(response)
	}
	return req, nil
}

func runAdd(cmd *cobra.Command, args []string, opts addOptions) error {
	req, err := parsePinArgs(args, opts)
	if err != nil {
		return err
	}

	p, err := newAPIClient().AddPin(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("adding pin: %w", err)
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, p)
	}

	fmt.Fprintln(out, "Pin added.")
	printPinSummary(out, p)
	return nil
}
