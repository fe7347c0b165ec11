package cli

import (
	"bytes"
	"strings"
	"testing"
)

// executeCommand runs a command with the given args and captures output.
func executeCommand(args ...string) (string, error) {
	return executeCommandWithInput("", args...)
}

// executeCommandWithInput is executeCommand with stdin set to input.
func executeCommandWithInput(input string, args ...string) (string, error) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(input))
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"add", "list", "stats", "near", "report", "serve", "login"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected %q in help output", name)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	root := NewRootCmd()

	formatFlag := root.PersistentFlags().Lookup("format")
	if formatFlag == nil {
		t.Fatal("expected --format flag to exist")
	}
	if formatFlag.DefValue != "text" {
		t.Errorf("expected --format default 'text', got %q", formatFlag.DefValue)
	}

	dbFlag := root.PersistentFlags().Lookup("db")
	if dbFlag == nil {
		t.Fatal("expected --db flag to exist")
	}
	if dbFlag.DefValue != "" {
		t.Errorf("expected --db default empty, got %q", dbFlag.DefValue)
	}
}

func TestInvalidFormat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := executeCommand("version", "--format", "yaml")
	if err == nil || !strings.Contains(err.Error(), "invalid --format") {
		t.Fatalf("err = %v, want invalid format", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := executeCommand("version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != Version {
		t.Errorf("output = %q, want %q", out, Version)
	}
}

func TestArgumentValidation(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REACH_SERVER_URL", "http://127.0.0.1:1")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"add too few", []string{"add", "house", "--lat", "1", "--lon", "2"}, "accepts between 2 and 3 arg(s)"},
		{"add missing coordinates", []string{"add", "house", "answered"}, `required flag(s) "lat", "lon" not set`},
		{"add missing longitude", []string{"add", "house", "answered", "--lat", "-1"}, `required flag(s) "lon" not set`},
		{"add bad latitude", []string{"add", "house", "answered", "--lat", "north", "--lon", "2"}, `invalid argument "north" for "--lat" flag`},
		{"add bad longitude", []string{"add", "house", "answered", "--lat", "1", "--lon", "west"}, `invalid argument "west" for "--lon" flag`},
		{"add bad residence", []string{"add", "castle", "answered", "--lat", "1", "--lon", "2"}, "invalid residence type"},
		{"add bad answer", []string{"add", "house", "maybe", "--lat", "1", "--lon", "2"}, "invalid answer status"},
		{"add bad response", []string{"add", "house", "answered", "meh", "--lat", "1", "--lon", "2"}, "invalid response type"},
		{"show no id", []string{"show"}, "accepts 1 arg(s)"},
		{"show bad id", []string{"show", "42"}, "invalid pin ID"},
		{"remove bad id", []string{"remove", "abc"}, "invalid pin ID"},
		{"near positional arg", []string{"near", "1", "--lat", "1", "--lon", "2"}, `unknown command "1"`},
		{"near missing longitude", []string{"near", "--lat", "-1"}, `required flag(s) "lon" not set`},
		{"near bad radius", []string{"near", "--lat", "-1", "--lon", "-2", "--radius", "0"}, "radius must be positive"},
		{"stats bad timeframe", []string{"stats", "--timeframe", "year"}, "unknown timeframe"},
		{"report bad timeframe", []string{"report", "--timeframe", "year"}, "unknown timeframe"},
		{"list extra arg", []string{"list", "x"}, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestParsePinArgs(t *testing.T) {
	req, err := parsePinArgs([]string{"Hotel Housing", "No Answer"}, addOptions{lat: -33.8688, lon: 151.2093, notes: "gate locked"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.Latitude != -33.8688 || req.Longitude != 151.2093 {
		t.Errorf("coordinates = %v,%v", req.Latitude, req.Longitude)
	}
	if req.ResidenceType != "hotel" || req.AnswerStatus != "no_answer" {
		t.Errorf("enums = %q/%q", req.ResidenceType, req.AnswerStatus)
	}
	if req.ResponseType != "" {
		t.Errorf("response = %q, want empty so the server default applies", req.ResponseType)
	}
	if req.Notes != "gate locked" {
		t.Errorf("notes = %q", req.Notes)
	}
}

func TestAddHelpListsValues(t *testing.T) {
	out, err := executeCommand("add", "--help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, want := range []string{"house, apartment, hotel, duplex, other", "answered, no_answer", "positive, negative", "--lat"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in help:\n%s", want, out)
		}
	}
}
