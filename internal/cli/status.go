package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check connection and session status",
		Long:  "Tests the connection to the server and shows who the stored session token belongs to.",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	serverURL := getServerURL()
	token := getToken()

	fmt.Fprintf(out, "Server:  %s\n", serverURL)

	resp, err := newAPIClient().Session(cmd.Context())
	if err != nil {
		fmt.Fprintf(out, "Status:  ✗ cannot reach server (%v)\n", err)
		return nil
	}
	fmt.Fprintln(out, "Status:  ✓ connected")

	switch {
	case resp.Authenticated:
		fmt.Fprintf(out, "Session: %s, team %s (since %s)\n",
			resp.User.Username, resp.User.TeamID, resp.User.LoginDate.Local().Format(timeLayout))
	case token != "":
		fmt.Fprintln(out, "Session: ✗ stored token is invalid or expired")
		fmt.Fprintln(out, "\nRun 'reach login' to sign in again.")
	default:
		fmt.Fprintln(out, "Session: not logged in")
		fmt.Fprintln(out, "\nRun 'reach login' to sign in.")
	}

	return nil
}
