package web

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/evcraddock/reach/internal/pin"
	"github.com/evcraddock/reach/internal/session"
	"github.com/evcraddock/reach/internal/stats"
)

// recentLimit caps the pin table on the dashboard.
const recentLimit = 20

type dashboardData struct {
	Snapshot     stats.Snapshot
	Tab          stats.Timeframe
	Team         string
	User         *session.User
	Recent       []*pin.Pin
	MaxResidence int
	MaxDaily     int
	Error        string
}

// handleDashboard renders the dashboard for ?timeframe=.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, http.StatusOK, s.sessionFor(r).CurrentUser(), "")
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, status int, user *session.User, errMsg string) {
	tf, err := stats.ParseTimeframe(r.URL.Query().Get("timeframe"))
	if err != nil {
		tf = stats.All
	}
	team := r.URL.Query().Get("team")

	pins, err := s.listPins(r.Context(), team)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error loading pins: %v", err), http.StatusInternalServerError)
		return
	}

	now := s.clock()
	snap := stats.BuildSnapshot(pins, tf, now)
	data := dashboardData{
		Snapshot: snap,
		Tab:      tf,
		Team:     team,
		User:     user,
		Recent:   stats.FilterByTimeframe(pins, tf, now),
		Error:    errMsg,
	}
	if len(data.Recent) > recentLimit {
		data.Recent = data.Recent[:recentLimit]
	}
	for _, rc := range snap.Residences {
		data.MaxResidence = max(data.MaxResidence, rc.Count)
	}
	for _, d := range snap.Daily {
		data.MaxDaily = max(data.MaxDaily, d.Count)
	}

	s.render(w, status, "dashboard.html", data)
}

// handleLoginSubmit processes the stub login form.
func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	_, token, err := s.login(loginRequest{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
		TeamID:   r.FormValue("team_id"),
	})
	if err != nil {
		s.renderDashboard(w, r, http.StatusBadRequest, nil, err.Error())
		return
	}

	s.setSessionCookie(w, r, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout clears the session cookie and returns to the dashboard.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// render executes a named template into a buffer so a failure can still
// set the status code.
func (s *Server) render(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, fmt.Sprintf("Error rendering template: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
