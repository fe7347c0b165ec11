package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/reach/internal/client"
	"github.com/evcraddock/reach/internal/stats"
)

func newReportCmd() *cobra.Command {
	var (
		timeframe string
		team      string
		to        []string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Email a dashboard report",
		Long:  "Render the dashboard for a timeframe as plain text and email it through the server's SMTP settings. Use --dry-run to preview.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := stats.ParseTimeframe(timeframe); err != nil {
				return err
			}
			return runReport(cmd, client.ReportRequest{
				Timeframe: timeframe,
				Team:      team,
				To:        to,
				DryRun:    dryRun,
			})
		},
	}

	cmd.Flags().StringVar(&timeframe, "timeframe", "week", "day, week, month or all")
	cmd.Flags().StringVar(&team, "team", "", "only report on this team (default: your session's team)")
	cmd.Flags().StringSliceVar(&to, "to", nil, "recipients (default: server's REACH_REPORT_TO)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview the report without sending")

	return cmd
}

func runReport(cmd *cobra.Command, req client.ReportRequest) error {
	resp, err := newAPIClient().Report(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("sending report: %w", err)
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, resp)
	}

	if resp.Sent {
		fmt.Fprintf(out, "Report sent to %s.\n", strings.Join(resp.To, ", "))
		return nil
	}

	if len(resp.To) > 0 {
		fmt.Fprintf(out, "To: %s\n", strings.Join(resp.To, ", "))
	}
	fmt.Fprintf(out, "Subject: %s\n\n%s", resp.Subject, resp.Body)
	return nil
}
