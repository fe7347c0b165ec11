package cli

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/evcraddock/reach/internal/config"
	"github.com/evcraddock/reach/internal/logging"
	"github.com/evcraddock/reach/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API and dashboard",
		Long: `Start the HTTP server for the JSON API and web dashboard.

Settings come from REACH_* environment variables, optionally from a .env file
in the working directory. --port overrides REACH_PORT.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")

	return cmd
}

// newServer builds the web server from cfg on the --db database. The caller
// closes the returned database.
func newServer(cfg config.Server) (*web.Server, *sql.DB, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	database, err := openDB()
	if err != nil {
		return nil, nil, err
	}

	srv, err := web.NewServer(database, web.Options{
		SessionSecret:  cfg.SessionSecret,
		Location:       loc,
		AllowedOrigins: cfg.AllowedOrigins,
		SMTP:           cfg.SMTP,
		ReportTo:       cfg.ReportTo,
	})
	if err != nil {
		if cerr := database.Close(); cerr != nil {
			slog.Warn("closing database", "error", cerr)
		}
		return nil, nil, fmt.Errorf("creating server: %w", err)
	}

	return srv, database, nil
}

func runServe(cmd *cobra.Command, cfg config.Server) error {
	logging.Setup(cfg.DevMode)

	srv, database, err := newServer(cfg)
	if err != nil {
		return err
	}
	defer closeDB(cmd.ErrOrStderr(), database)

	if cfg.InsecureSecret() {
		slog.Warn("REACH_SESSION_SECRET is unset; signing sessions with the development default")
	}
	if !cfg.SMTP.IsConfigured() {
		slog.Info("SMTP not configured; reports can only be previewed")
	}

	return srv.ListenAndServe(cmd.Context(), cfg.Port)
}
