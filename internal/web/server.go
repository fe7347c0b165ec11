// Package web provides the HTTP API and dashboard for reach.
package web

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/evcraddock/reach/internal/logging"
	"github.com/evcraddock/reach/internal/pin"
	"github.com/evcraddock/reach/internal/report"
	"github.com/evcraddock/reach/internal/session"
	"github.com/evcraddock/reach/internal/stats"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Options configures a Server. Zero values are usable.
type Options struct {
	SessionSecret  string
	Location       *time.Location
	AllowedOrigins []string
	SMTP           report.SMTPConfig
	ReportTo       []string
}

// Server is the reach HTTP server.
type Server struct {
	pins      *pin.Repository
	codec     *session.Codec
	loc       *time.Location
	smtp      report.SMTPConfig
	reportTo  []string
	templates *template.Template
	router    *mux.Router
	handler   http.Handler

	now  func() time.Time
	send func(cfg report.SMTPConfig, to []string, subject, body string) error
}

// NewServer creates a server backed by db.
func NewServer(db *sql.DB, opts Options) (*Server, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	funcMap := template.FuncMap{
		"percent":    report.Percent,
		"timeframes": func() []stats.Timeframe { return stats.Timeframes },
		"barWidth":   tmplBarWidth,
		"localTime": func(t time.Time) string {
			return t.In(loc).Format("Jan 2 15:04")
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	secret := opts.SessionSecret
	if secret == "" {
		slog.Warn("no session secret configured; using the development default")
		secret = "reach-dev-secret"
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		pins:      pin.NewRepository(db),
		codec:     session.NewCodec(secret),
		loc:       loc,
		smtp:      opts.SMTP,
		reportTo:  opts.ReportTo,
		templates: tmpl,
		router:    mux.NewRouter(),
		now:       time.Now,
		send:      report.Send,
	}

	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("creating static sub-fs: %w", err)
	}

	r := s.router
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/pins", s.apiListPins).Methods(http.MethodGet)
	r.HandleFunc("/api/pins", s.apiAddPin).Methods(http.MethodPost)
	r.HandleFunc("/api/pins/near", s.apiNearPins).Methods(http.MethodGet)
	r.HandleFunc("/api/pins/{id}", s.apiGetPin).Methods(http.MethodGet)
	r.HandleFunc("/api/pins/{id}", s.apiDeletePin).Methods(http.MethodDelete)
	r.HandleFunc("/api/stats", s.apiStats).Methods(http.MethodGet)
	r.HandleFunc("/api/session", s.apiLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/session", s.apiSession).Methods(http.MethodGet)
	r.HandleFunc("/api/session", s.apiLogout).Methods(http.MethodDelete)
	r.HandleFunc("/api/report", s.apiReport).Methods(http.MethodPost)
	r.NotFoundHandler = routeError("not found", http.StatusNotFound)
	r.MethodNotAllowedHandler = routeError("method not allowed", http.StatusMethodNotAllowed)

	r.HandleFunc("/", s.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLoginSubmit).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)

	co := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", logging.RequestIDHeader},
	})
	s.handler = co.Handler(logging.RequestLogger(s.router))

	return s, nil
}

// routeError answers unmatched requests, as JSON under /api/.
func routeError(msg string, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			apiError(w, msg, status)
			return
		}
		http.Error(w, http.StatusText(status), status)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on port until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting reach server", "addr", "http://localhost"+addr, "timezone", s.loc.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// clock returns the current time in the reporting location.
func (s *Server) clock() time.Time {
	return s.now().In(s.loc)
}

// tmplBarWidth scales n against max into a 0-100 percentage for chart bars.
func tmplBarWidth(n, max int) int {
	if max <= 0 {
		return 0
	}
	return n * 100 / max
}
