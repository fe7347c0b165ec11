// Package report formats the outreach dashboard as plain text and sends it
// over SMTP.
package report

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
	"text/tabwriter"

	"github.com/evcraddock/reach/internal/session"
	"github.com/evcraddock/reach/internal/stats"
)

// SMTPConfig holds SMTP connection settings.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// IsConfigured returns true if SMTP settings are present.
func (c SMTPConfig) IsConfigured() bool {
	return c.Host != "" && c.From != ""
}

// Subject returns the email subject for a snapshot.
func Subject(snap stats.Snapshot, user *session.User) string {
	s := fmt.Sprintf("Outreach report: %s", snap.Timeframe.Label())
	if user != nil && user.TeamID != "" {
		s += " (team " + user.TeamID + ")"
	}
	return s
}

// Format builds a plain-text report body. user may be nil.
func Format(snap stats.Snapshot, user *session.User) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Outreach summary: %s\n", snap.Timeframe.Label())
	fmt.Fprintf(&buf, "Generated %s\n", snap.GeneratedAt.Format("2006-01-02 15:04 MST"))
	if user != nil {
		fmt.Fprintf(&buf, "Prepared by %s, team %s\n", user.Username, user.TeamID)
	}
	fmt.Fprintln(&buf)

	s := snap.Stats
	fmt.Fprintf(&buf, "Visits:        %d\n", s.TotalVisits)
	fmt.Fprintf(&buf, "Answered:      %d\n", s.Answered)
	fmt.Fprintf(&buf, "No answer:     %d\n", s.NoAnswer)
	fmt.Fprintf(&buf, "Positive:      %d\n", s.Positive)
	fmt.Fprintf(&buf, "Negative:      %d\n", s.Negative)
	fmt.Fprintf(&buf, "Response rate: %s\n", Percent(snap.ResponseRate))
	fmt.Fprintf(&buf, "Positive rate: %s\n", Percent(snap.PositiveRate))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "By residence:")
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, rc := range snap.Residences {
		fmt.Fprintf(w, "  %s\t%d\n", rc.Label, rc.Count)
	}
	_ = w.Flush()
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "By day:")
	if len(snap.Daily) == 0 {
		fmt.Fprintln(&buf, "  no visits")
	}
	for _, dc := range snap.Daily {
		fmt.Fprintf(&buf, "  %s  %s %d\n", dc.Date, strings.Repeat("#", min(dc.Count, 40)), dc.Count)
	}

	return buf.String()
}

// Percent renders a 0..1 rate as a whole percentage.
func Percent(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}

// Send sends an email via SMTP.
// Supports both port 465 (implicit TLS) and port 587 (STARTTLS).
func Send(cfg SMTPConfig, to []string, subject, body string) error {
	if !cfg.IsConfigured() {
		return fmt.Errorf("SMTP not configured")
	}
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		cfg.From,
		strings.Join(to, ", "),
		subject,
		body,
	)

	addr := cfg.Host + ":" + cfg.Port

	if cfg.Port == "465" {
		return sendImplicitTLS(cfg, addr, to, msg)
	}
	return sendSTARTTLS(cfg, addr, to, msg)
}

// sendImplicitTLS connects over TLS directly (port 465/SMTPS).
func sendImplicitTLS(cfg SMTPConfig, addr string, to []string, msg string) (err error) {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: cfg.Host})
	if err != nil {
		return fmt.Errorf("TLS dial: %w", err)
	}

	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer func() {
		if quitErr := c.Quit(); quitErr != nil && err == nil {
			err = fmt.Errorf("quit: %w", quitErr)
		}
	}()

	if cfg.User != "" {
		if err := c.Auth(smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := c.Mail(cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt to %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}

	return nil
}

// sendSTARTTLS connects plain then upgrades to TLS (port 587).
func sendSTARTTLS(cfg SMTPConfig, addr string, to []string, msg string) error {
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, cfg.From, to, []byte(msg)); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
