package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/evcraddock/reach/internal/report"
	"github.com/evcraddock/reach/internal/stats"
)

type reportRequest struct {
	Timeframe string   `json:"timeframe"`
	Team      string   `json:"team"`
	To        []string `json:"to"`
	DryRun    bool     `json:"dry_run"`
}

type reportResponse struct {
	Sent    bool     `json:"sent"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// apiReport handles POST /api/report.
func (s *Server) apiReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	tf, err := stats.ParseTimeframe(req.Timeframe)
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user := s.sessionFor(r).CurrentUser()
	team := req.Team
	if team == "" && user != nil {
		team = user.TeamID
	}

	pins, err := s.listPins(r.Context(), team)
	if err != nil {
		apiError(w, fmt.Sprintf("listing pins: %v", err), http.StatusInternalServerError)
		return
	}

	snap := stats.BuildSnapshot(pins, tf, s.clock())
	resp := reportResponse{
		To:      req.To,
		Subject: report.Subject(snap, user),
		Body:    report.Format(snap, user),
	}
	if len(resp.To) == 0 {
		resp.To = s.reportTo
	}

	if req.DryRun {
		apiJSON(w, resp, http.StatusOK)
		return
	}

	if !s.smtp.IsConfigured() {
		apiError(w, "email not available (REACH_SMTP_HOST and REACH_SMTP_FROM not configured)", http.StatusServiceUnavailable)
		return
	}
	if len(resp.To) == 0 {
		apiError(w, "no recipients (set REACH_REPORT_TO or pass to)", http.StatusBadRequest)
		return
	}

	if err := s.send(s.smtp, resp.To, resp.Subject, resp.Body); err != nil {
		apiError(w, fmt.Sprintf("sending report: %v", err), http.StatusBadGateway)
		return
	}

	resp.Sent = true
	apiJSON(w, resp, http.StatusOK)
}
