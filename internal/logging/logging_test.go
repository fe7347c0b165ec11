package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	var buf bytes.Buffer
	slog.SetDefault(New(&buf, true))
	return &buf
}

func TestNewDevMode(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true)

	logger.Debug("test debug")
	logger.Info("test info")

	out := buf.String()
	if !strings.Contains(out, "test debug") {
		t.Error("expected debug message visible in dev mode")
	}
	if !strings.Contains(out, "level=INFO") {
		t.Errorf("expected text output, got %q", out)
	}
}

func TestNewProdMode(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	logger.Debug("hidden")
	logger.Info("shown", "visits", 3)

	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug message should be filtered in prod mode")
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "shown" || entry["visits"] != float64(3) {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestSetup(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	Setup(false)
	if slog.Default() == old {
		t.Error("expected Setup to replace the default logger")
	}
}

func okHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

func TestRequestLogger(t *testing.T) {
	buf := captureDefault(t)

	req := httptest.NewRequest("GET", "/api/pins", nil)
	rec := httptest.NewRecorder()
	RequestLogger(okHandler(http.StatusOK)).ServeHTTP(rec, req)

	out := buf.String()
	if !strings.Contains(out, "GET") {
		t.Error("expected method in log")
	}
	if !strings.Contains(out, "/api/pins") {
		t.Error("expected path in log")
	}
	id := rec.Header().Get(RequestIDHeader)
	if id == "" {
		t.Fatal("expected generated request id header")
	}
	if !strings.Contains(out, id) {
		t.Error("expected request id in log")
	}
}

func TestRequestLoggerKeepsIncomingID(t *testing.T) {
	buf := captureDefault(t)

	req := httptest.NewRequest("GET", "/api/stats", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	RequestLogger(okHandler(http.StatusOK)).ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
	if !strings.Contains(buf.String(), "abc-123") {
		t.Error("expected incoming id in log")
	}
}

func TestRequestLoggerSkipsNoisyPaths(t *testing.T) {
	for _, path := range []string{"/static/style.css", "/health"} {
		t.Run(path, func(t *testing.T) {
			buf := captureDefault(t)

			req := httptest.NewRequest("GET", path, nil)
			RequestLogger(okHandler(http.StatusOK)).ServeHTTP(httptest.NewRecorder(), req)

			if buf.Len() > 0 {
				t.Errorf("expected no log for %s, got %q", path, buf.String())
			}
		})
	}
}

func TestRequestLoggerLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusNotFound, "level=WARN"},
		{http.StatusInternalServerError, "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			buf := captureDefault(t)

			req := httptest.NewRequest("GET", "/missing", nil)
			RequestLogger(okHandler(tt.status)).ServeHTTP(httptest.NewRecorder(), req)

			if !strings.Contains(buf.String(), tt.level) {
				t.Errorf("expected %s in %q", tt.level, buf.String())
			}
		})
	}
}
