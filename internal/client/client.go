// Package client provides an HTTP client for the reach REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/evcraddock/reach/internal/pin"
	"github.com/evcraddock/reach/internal/session"
	"github.com/evcraddock/reach/internal/stats"
)

// Client is an HTTP client for the reach API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client. token may be empty.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Error is a non-2xx response from the server.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// PinRequest is the body for AddPin. Enum fields take the value or the
// display label.
type PinRequest struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	ResidenceType string  `json:"residence_type"`
	AnswerStatus  string  `json:"answer_status"`
	ResponseType  string  `json:"response_type,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// SessionResponse is returned by the /api/session endpoints.
type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *session.User `json:"user,omitempty"`
	Token         string        `json:"token,omitempty"`
}

// ReportRequest selects what POST /api/report summarizes.
type ReportRequest struct {
	Timeframe string   `json:"timeframe,omitempty"`
	Team      string   `json:"team,omitempty"`
	To        []string `json:"to,omitempty"`
	DryRun    bool     `json:"dry_run"`
}

// ReportResponse is the response from POST /api/report.
type ReportResponse struct {
	Sent    bool     `json:"sent"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// ListPins returns all pins newest first, or one team's when team is set.
func (c *Client) ListPins(ctx context.Context, team string) ([]*pin.Pin, error) {
	path := "/api/pins"
	if team != "" {
		path += "?" + url.Values{"team": {team}}.Encode()
	}

	var pins []*pin.Pin
	if err := c.get(ctx, path, &pins); err != nil {
		return nil, err
	}
	return pins, nil
}

// GetPin returns a single pin.
func (c *Client) GetPin(ctx context.Context, id uuid.UUID) (*pin.Pin, error) {
	var p pin.Pin
	if err := c.get(ctx, "/api/pins/"+id.String(), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// AddPin drops a new pin.
func (c *Client) AddPin(ctx context.Context, req PinRequest) (*pin.Pin, error) {
	var p pin.Pin
	if err := c.post(ctx, "/api/pins", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePin removes a pin.
func (c *Client) DeletePin(ctx context.Context, id uuid.UUID) error {
	return c.doDelete(ctx, "/api/pins/"+id.String())
}

// Near returns pins within radius meters of lat/lon, nearest first.
func (c *Client) Near(ctx context.Context, lat, lon, radius float64) ([]pin.Nearby, error) {
	q := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon": {strconv.FormatFloat(lon, 'f', -1, 64)},
	}
	if radius > 0 {
		q.Set("radius", strconv.FormatFloat(radius, 'f', -1, 64))
	}

	var out []pin.Nearby
	if err := c.get(ctx, "/api/pins/near?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats returns the dashboard snapshot for a timeframe.
func (c *Client) Stats(ctx context.Context, tf stats.Timeframe, team string) (*stats.Snapshot, error) {
	q := url.Values{"timeframe": {string(tf)}}
	if team != "" {
		q.Set("team", team)
	}

	var snap stats.Snapshot
	if err := c.get(ctx, "/api/stats?"+q.Encode(), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Login starts a stub session and returns the issued token. The client
// keeps using its configured token; callers persist the new one.
func (c *Client) Login(ctx context.Context, username, password, teamID string) (*SessionResponse, error) {
	body := map[string]string{
		"username": username,
		"password": password,
		"team_id":  teamID,
	}
	var resp SessionResponse
	if err := c.post(ctx, "/api/session", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Session reports who the configured token belongs to.
func (c *Client) Session(ctx context.Context) (*SessionResponse, error) {
	var resp SessionResponse
	if err := c.get(ctx, "/api/session", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout ends the session on the server side.
func (c *Client) Logout(ctx context.Context) error {
	return c.doDelete(ctx, "/api/session")
}

// Report renders, and unless DryRun is set emails, a dashboard report.
func (c *Client) Report(ctx context.Context, req ReportRequest) (*ReportResponse, error) {
	var resp ReportResponse
	if err := c.post(ctx, "/api/report", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// get performs a GET request and decodes the response.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// doDelete performs a DELETE request.
func (c *Client) doDelete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, nil)
}

// do executes an HTTP request with the bearer token and handles errors.
func (c *Client) do(req *http.Request, result interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing response body", "error", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		msg := "server error: " + http.StatusText(resp.StatusCode)
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &Error{StatusCode: resp.StatusCode, Message: msg}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
