// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/evcraddock/reach/internal/geo"
	"github.com/evcraddock/reach/internal/report"
)

// DefaultSessionSecret signs session tokens when REACH_SESSION_SECRET is unset.
const DefaultSessionSecret = "reach-dev-secret"

// Server holds settings for `reach serve`.
type Server struct {
	Port           int
	DevMode        bool
	SessionSecret  string
	AllowedOrigins []string
	Timezone       string
	HomeLat        *float64
	HomeLon        *float64
	ReportTo       []string
	SMTP           report.SMTPConfig
}

// Load reads REACH_* variables, first merging a .env file from the working
// directory when one exists. Variables already set win over the file.
func Load() (Server, error) {
	_ = godotenv.Load() // .env is optional

	cfg := Server{
		DevMode:        os.Getenv("REACH_DEV_MODE") == "true",
		SessionSecret:  envOrDefault("REACH_SESSION_SECRET", DefaultSessionSecret),
		AllowedOrigins: splitList(envOrDefault("REACH_ALLOWED_ORIGINS", "*")),
		Timezone:       os.Getenv("REACH_TIMEZONE"),
		ReportTo:       splitList(os.Getenv("REACH_REPORT_TO")),
		SMTP: report.SMTPConfig{
			Host: os.Getenv("REACH_SMTP_HOST"),
			Port: envOrDefault("REACH_SMTP_PORT", "587"),
			User: os.Getenv("REACH_SMTP_USER"),
			Pass: os.Getenv("REACH_SMTP_PASS"),
			From: os.Getenv("REACH_SMTP_FROM"),
		},
	}

	port, err := strconv.Atoi(envOrDefault("REACH_PORT", "8080"))
	if err != nil {
		return Server{}, fmt.Errorf("parsing REACH_PORT: %w", err)
	}
	cfg.Port = port

	if cfg.HomeLat, err = envFloat("REACH_HOME_LAT"); err != nil {
		return Server{}, err
	}
	if cfg.HomeLon, err = envFloat("REACH_HOME_LON"); err != nil {
		return Server{}, err
	}

	return cfg, nil
}

// InsecureSecret reports whether a production server is signing tokens with
// the default secret.
func (s Server) InsecureSecret() bool {
	return !s.DevMode && s.SessionSecret == DefaultSessionSecret
}

// Location resolves the reporting timezone: REACH_TIMEZONE when set, else
// the zone containing the home coordinate, else the process local zone.
func (s Server) Location() (*time.Location, error) {
	if s.Timezone != "" {
		loc, err := time.LoadLocation(s.Timezone)
		if err != nil {
			return nil, fmt.Errorf("loading timezone %q: %w", s.Timezone, err)
		}
		return loc, nil
	}
	if s.HomeLat != nil && s.HomeLon != nil {
		return geo.ZoneFor(*s.HomeLat, *s.HomeLon), nil
	}
	return time.Local, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string) (*float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", key, err)
	}
	return &f, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
