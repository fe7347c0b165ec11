package cli

import (
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/evcraddock/reach/internal/db"
	"github.com/evcraddock/reach/internal/pin"
	"github.com/evcraddock/reach/internal/web"
)

// setupServer runs a real reach server and points the CLI at it with a
// fresh HOME.
func setupServer(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REACH_TOKEN", "")

	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if cerr := d.Close(); cerr != nil {
			t.Errorf("close db: %v", cerr)
		}
	})

	srv, err := web.NewServer(d, web.Options{SessionSecret: "cli-test", Location: time.UTC})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	t.Setenv("REACH_SERVER_URL", ts.URL)
}

// addPin runs `reach add` with JSON output and returns the created pin.
func addPin(t *testing.T, args ...string) *pin.Pin {
	t.Helper()
	out, err := executeCommand(append(append([]string{"add"}, args...), "--format", "json")...)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	var p pin.Pin
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("decode add output %q: %v", out, err)
	}
	return &p
}

func TestAddListShowRemove(t *testing.T) {
	setupServer(t)

	out, err := executeCommand("add", "duplex", "answered", "negative", "--lat", "39.7392", "--lon", "-104.9903", "--notes", "ask about bins")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Pin added.") || !strings.Contains(out, "Negative Response") {
		t.Errorf("add output = %q", out)
	}

	p := addPin(t, "house", "no_answer", "--lat", "39.74", "--lon", "-104.99")
	if p.ResponseType != pin.Positive {
		t.Errorf("default response = %q", p.ResponseType)
	}

	out, err = executeCommand("list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Total: 2 pins") || !strings.Contains(out, "Duplex") {
		t.Errorf("list output = %q", out)
	}

	out, err = executeCommand("show", p.ID.String())
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "No Answer") || !strings.Contains(out, "Response:  -") {
		t.Errorf("show output = %q", out)
	}

	if _, err := executeCommand("remove", p.ID.String()); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := executeCommand("show", p.ID.String()); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("show after remove err = %v", err)
	}
}

func TestListEmpty(t *testing.T) {
	setupServer(t)

	out, err := executeCommand("list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "No pins found.") {
		t.Errorf("output = %q", out)
	}
}

func TestStatsCommand(t *testing.T) {
	setupServer(t)
	addPin(t, "house", "answered", "positive", "--lat", "1", "--lon", "1")
	addPin(t, "apartment", "answered", "negative", "--lat", "1", "--lon", "1")
	addPin(t, "apartment", "no_answer", "--lat", "1", "--lon", "1")

	out, err := executeCommand("stats", "--timeframe", "day")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"Today", "Visits", "3", "Response rate  67%", "Positive rate  50%", "Apartment", "Hotel Housing"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestNearCommand(t *testing.T) {
	setupServer(t)
	addPin(t, "house", "answered", "--lat", "39.7400", "--lon", "-104.9900")
	addPin(t, "house", "answered", "--lat", "40.0150", "--lon", "-105.2705")

	out, err := executeCommand("near", "--lat", "39.7392", "--lon", "-104.9903", "--radius", "1000", "--format", "json")
	if err != nil {
		t.Fatalf("near: %v", err)
	}
	var near []pin.Nearby
	if err := json.Unmarshal([]byte(out), &near); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(near) != 1 {
		t.Errorf("got %d nearby pins, want 1", len(near))
	}
}

func TestNegativeCoordinates(t *testing.T) {
	setupServer(t)

	sydney := addPin(t, "apartment", "answered", "--lat", "-33.8688", "--lon", "151.2093")
	if sydney.Latitude != -33.8688 || sydney.Longitude != 151.2093 {
		t.Errorf("sydney = %v,%v", sydney.Latitude, sydney.Longitude)
	}
	rio := addPin(t, "house", "no_answer", "--lat=-22.9068", "--lon=-43.1729")
	if rio.Latitude != -22.9068 || rio.Longitude != -43.1729 {
		t.Errorf("rio = %v,%v", rio.Latitude, rio.Longitude)
	}

	out, err := executeCommand("near", "--lat", "-22.9070", "--lon", "-43.1730", "--format", "json")
	if err != nil {
		t.Fatalf("near: %v", err)
	}
	var near []pin.Nearby
	if err := json.Unmarshal([]byte(out), &near); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(near) != 1 || near[0].Pin.ID != rio.ID {
		t.Errorf("near = %+v, want only %s", near, rio.ID)
	}
}

func TestReportDryRun(t *testing.T) {
	setupServer(t)
	addPin(t, "house", "answered", "--lat", "1", "--lon", "1")

	out, err := executeCommand("report", "--dry-run", "--timeframe", "all", "--to", "lead@example.com")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	for _, want := range []string{"To: lead@example.com", "Subject: Outreach report: All time", "Visits:        1"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestReportWithoutSMTP(t *testing.T) {
	setupServer(t)

	_, err := executeCommand("report", "--to", "lead@example.com")
	if err == nil || !strings.Contains(err.Error(), "email not available") {
		t.Fatalf("err = %v, want SMTP error", err)
	}
}

func TestLoginStatusLogout(t *testing.T) {
	setupServer(t)

	out, err := executeCommand("status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "not logged in") {
		t.Errorf("status before login = %q", out)
	}

	out, err = executeCommandWithInput("secret\n", "login", "--username", "sam", "--team", "east")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Logged in as sam (team east)") {
		t.Errorf("login output = %q", out)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Token == "" || cfg.TeamID != "east" {
		t.Fatalf("config after login = %+v", cfg)
	}

	out, err = executeCommand("status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Session: sam, team east") {
		t.Errorf("status after login = %q", out)
	}

	p := addPin(t, "house", "answered", "--lat", "1", "--lon", "1")
	if p.TeamID != "east" || p.CreatedBy != "sam" {
		t.Errorf("pin team/creator = %q/%q", p.TeamID, p.CreatedBy)
	}

	out, err = executeCommand("logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !strings.Contains(out, "Logged out") {
		t.Errorf("logout output = %q", out)
	}
	if cfg, _ := loadConfig(); cfg.Token != "" {
		t.Error("expected token cleared")
	}

	out, err = executeCommand("logout")
	if err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if !strings.Contains(out, "Not logged in.") {
		t.Errorf("second logout output = %q", out)
	}
}

func TestLoginPromptsForEverything(t *testing.T) {
	setupServer(t)

	out, err := executeCommandWithInput("riley\npw\nblue\n", "login")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Username: ") || !strings.Contains(out, "Team ID: ") {
		t.Errorf("expected prompts in %q", out)
	}
	if !strings.Contains(out, "Logged in as riley (team blue)") {
		t.Errorf("login output = %q", out)
	}
}

func TestLoginMissingPassword(t *testing.T) {
	setupServer(t)

	_, err := executeCommandWithInput("\n", "login", "--username", "sam", "--team", "east")
	if err == nil || !strings.Contains(err.Error(), "required") {
		t.Fatalf("err = %v, want missing credentials", err)
	}
}

func TestStatusUnreachable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REACH_SERVER_URL", "http://127.0.0.1:1")

	out, err := executeCommand("status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "cannot reach server") {
		t.Errorf("output = %q", out)
	}
}
