package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/reach/internal/client"
)

type loginFlags struct {
	server   string
	username string
	team     string
}

func newLoginCmd() *cobra.Command {
	var f loginFlags

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store a session token",
		Long:  "Signs in with a username, password and team ID and stores the returned session token. Any non-empty values are accepted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.server, "server", "", "server URL (default: from config or http://localhost:8080)")
	cmd.Flags().StringVar(&f.username, "username", "", "username (prompted if omitted)")
	cmd.Flags().StringVar(&f.team, "team", "", "team ID (prompted if omitted)")

	return cmd
}

// prompt prints label and reads one trimmed line from r.
func prompt(out io.Writer, r *bufio.Reader, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func runLogin(cmd *cobra.Command, f loginFlags) error {
	out := cmd.OutOrStdout()
	in := bufio.NewReader(cmd.InOrStdin())

	serverURL := f.server
	if serverURL == "" {
		serverURL = getServerURL()
	}

	var err error
	username := f.username
	if username == "" {
		if username, err = prompt(out, in, "Username: "); err != nil {
			return err
		}
	}
	password, err := prompt(out, in, "Password: ")
	if err != nil {
		return err
	}
	team := f.team
	if team == "" {
		if team, err = prompt(out, in, "Team ID: "); err != nil {
			return err
		}
	}

	resp, err := client.New(serverURL, "").Login(cmd.Context(), username, password, team)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	// Load existing config to preserve other fields
	cfg, err := loadConfig()
	if err != nil {
		cfg = CLIConfig{}
	}
	cfg.Token = resp.Token
	cfg.Username = resp.User.Username
	cfg.TeamID = resp.User.TeamID
	if f.server != "" {
		cfg.ServerURL = f.server
	}

	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintf(out, "✓ Logged in as %s (team %s).\n", resp.User.Username, resp.User.TeamID)
	return nil
}
