package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/evcraddock/reach/internal/geo"
	"github.com/evcraddock/reach/internal/pin"
	"github.com/evcraddock/reach/internal/stats"
)

// defaultNearRadius is used by /api/pins/near when radius is omitted.
const defaultNearRadius = 500.0

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// pinRequest is the POST /api/pins body. Enum fields accept the value or the
// display label; unlike stored data they are checked strictly.
type pinRequest struct {
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	ResidenceType string   `json:"residence_type"`
	AnswerStatus  string   `json:"answer_status"`
	ResponseType  string   `json:"response_type"`
	Notes         string   `json:"notes"`
}

// input converts the request into pin.Input.
func (req pinRequest) input() (pin.Input, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return pin.Input{}, errors.New("latitude and longitude are required")
	}
	in := pin.Input{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Notes:     req.Notes,
	}

	var ok bool
	if in.ResidenceType, ok = pin.LookupResidenceType(req.ResidenceType); !ok {
		return pin.Input{}, fmt.Errorf("unknown residence_type %q", req.ResidenceType)
	}
	if in.AnswerStatus, ok = pin.LookupAnswerStatus(req.AnswerStatus); !ok {
		return pin.Input{}, fmt.Errorf("unknown answer_status %q", req.AnswerStatus)
	}
	if strings.TrimSpace(req.ResponseType) != "" {
		if in.ResponseType, ok = pin.LookupResponseType(req.ResponseType); !ok {
			return pin.Input{}, fmt.Errorf("unknown response_type %q", req.ResponseType)
		}
	}
	return in, nil
}

// apiListPins returns all pins, newest first, optionally for one team.
func (s *Server) apiListPins(w http.ResponseWriter, r *http.Request) {
	pins, err := s.loadPins(r)
	if err != nil {
		apiError(w, fmt.Sprintf("listing pins: %v", err), http.StatusInternalServerError)
		return
	}
	apiJSON(w, pins, http.StatusOK)
}

// apiAddPin drops a new pin. A session, when present, stamps team and user.
func (s *Server) apiAddPin(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	in, err := req.input()
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if u := s.sessionFor(r).CurrentUser(); u != nil {
		in.TeamID = u.TeamID
		in.CreatedBy = u.Username
	}

	p, err := pin.New(in, s.clock())
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.pins.Insert(r.Context(), p); err != nil {
		apiError(w, fmt.Sprintf("saving pin: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, p, http.StatusCreated)
}

// apiGetPin returns a single pin.
func (s *Server) apiGetPin(w http.ResponseWriter, r *http.Request) {
	id, ok := pinID(w, r)
	if !ok {
		return
	}

	p, err := s.pins.GetByID(r.Context(), id)
	if errors.Is(err, pin.ErrNotFound) {
		apiError(w, "pin not found", http.StatusNotFound)
		return
	}
	if err != nil {
		apiError(w, fmt.Sprintf("loading pin: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, p, http.StatusOK)
}

// apiDeletePin removes a pin.
func (s *Server) apiDeletePin(w http.ResponseWriter, r *http.Request) {
	id, ok := pinID(w, r)
	if !ok {
		return
	}

	err := s.pins.Delete(r.Context(), id)
	if errors.Is(err, pin.ErrNotFound) {
		apiError(w, "pin not found", http.StatusNotFound)
		return
	}
	if err != nil {
		apiError(w, fmt.Sprintf("deleting pin: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]string{"status": "deleted"}, http.StatusOK)
}

// apiNearPins returns pins within radius meters of lat/lon, nearest first.
func (s *Server) apiNearPins(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		apiError(w, "lat must be a number between -90 and 90", http.StatusBadRequest)
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		apiError(w, "lon must be a number between -180 and 180", http.StatusBadRequest)
		return
	}
	radius := defaultNearRadius
	if v := q.Get("radius"); v != "" {
		radius, err = strconv.ParseFloat(v, 64)
		if err != nil || radius <= 0 {
			apiError(w, "radius must be a positive number of meters", http.StatusBadRequest)
			return
		}
	}

	pins, err := s.loadPins(r)
	if err != nil {
		apiError(w, fmt.Sprintf("listing pins: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, pin.Near(pins, geo.Point{Lat: lat, Lon: lon}, radius), http.StatusOK)
}

// apiStats returns the dashboard snapshot for ?timeframe=.
func (s *Server) apiStats(w http.ResponseWriter, r *http.Request) {
	tf, err := stats.ParseTimeframe(r.URL.Query().Get("timeframe"))
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	pins, err := s.loadPins(r)
	if err != nil {
		apiError(w, fmt.Sprintf("listing pins: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, stats.BuildSnapshot(pins, tf, s.clock()), http.StatusOK)
}

// loadPins reads every pin, or one team's pins when ?team= is set.
func (s *Server) loadPins(r *http.Request) ([]*pin.Pin, error) {
	return s.listPins(r.Context(), r.URL.Query().Get("team"))
}

func (s *Server) listPins(ctx context.Context, team string) ([]*pin.Pin, error) {
	if team = strings.TrimSpace(team); team != "" {
		return s.pins.ListByTeam(ctx, team)
	}
	return s.pins.List(ctx)
}

// pinID parses the {id} route variable, writing a 400 on failure.
func pinID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		apiError(w, "invalid pin ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
