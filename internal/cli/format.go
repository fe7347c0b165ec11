package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/evcraddock/reach/internal/pin"
	"github.com/evcraddock/reach/internal/report"
	"github.com/evcraddock/reach/internal/stats"
)

const timeLayout = "2006-01-02 15:04"

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// responseLabel is the response label for answered pins and "-" otherwise.
func responseLabel(p *pin.Pin) string {
	if r, ok := p.Response(); ok {
		return r.Label()
	}
	return "-"
}

// printPinSummary prints a single pin in text format.
func printPinSummary(w io.Writer, p *pin.Pin) {
	fmt.Fprintf(w, "Pin %s\n", p.ID)
	fmt.Fprintf(w, "  When:      %s\n", p.Timestamp.Local().Format(timeLayout))
	fmt.Fprintf(w, "  Location:  %.6f, %.6f\n", p.Latitude, p.Longitude)
	fmt.Fprintf(w, "  Residence: %s\n", p.ResidenceType.Label())
	fmt.Fprintf(w, "  Answer:    %s\n", p.AnswerStatus.Label())
	fmt.Fprintf(w, "  Response:  %s\n", responseLabel(p))
	if p.Notes != "" {
		fmt.Fprintf(w, "  Notes:     %s\n", p.Notes)
	}
	if p.TeamID != "" {
		fmt.Fprintf(w, "  Team:      %s\n", p.TeamID)
	}
	if p.CreatedBy != "" {
		fmt.Fprintf(w, "  By:        %s\n", p.CreatedBy)
	}
}

// printPinTable prints a list of pins as a formatted table.
func printPinTable(out io.Writer, pins []*pin.Pin) error {
	if len(pins) == 0 {
		fmt.Fprintln(out, "No pins found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tWHEN\tRESIDENCE\tANSWER\tRESPONSE\tNOTES"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t----\t---------\t------\t--------\t-----"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, p := range pins {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Timestamp.Local().Format(timeLayout), p.ResidenceType.Label(),
			p.AnswerStatus.Label(), responseLabel(p), truncate(p.Notes, 30)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Fprintf(out, "\nTotal: %d pins\n", len(pins))
	return nil
}

// printNearTable prints pins with their distance from the query point.
func printNearTable(out io.Writer, near []pin.Nearby) error {
	if len(near) == 0 {
		fmt.Fprintln(out, "No pins nearby.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tDISTANCE\tRESIDENCE\tANSWER\tWHEN"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	for _, n := range near {
		if _, err := fmt.Fprintf(w, "%s\t%.0f m\t%s\t%s\t%s\n",
			n.ID, n.DistanceMeters, n.ResidenceType.Label(),
			n.AnswerStatus.Label(), n.Timestamp.Local().Format(timeLayout)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	return w.Flush()
}

// printSnapshot prints the dashboard numbers for one timeframe.
func printSnapshot(out io.Writer, snap *stats.Snapshot) error {
	fmt.Fprintf(out, "%s\n\n", snap.Timeframe.Label())

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	s := snap.Stats
	rows := []struct {
		label string
		value string
	}{
		{"Visits", fmt.Sprint(s.TotalVisits)},
		{"Answered", fmt.Sprint(s.Answered)},
		{"No answer", fmt.Sprint(s.NoAnswer)},
		{"Positive", fmt.Sprint(s.Positive)},
		{"Negative", fmt.Sprint(s.Negative)},
		{"Response rate", report.Percent(snap.ResponseRate)},
		{"Positive rate", report.Percent(snap.PositiveRate)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", r.label, r.value); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
	}

	if _, err := fmt.Fprintln(w, "\nRESIDENCE\tVISITS"); err != nil {
		return fmt.Errorf("writing residence header: %w", err)
	}
	for _, rc := range snap.Residences {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", rc.Label, rc.Count); err != nil {
			return fmt.Errorf("writing residence row: %w", err)
		}
	}

	if len(snap.Daily) > 0 {
		if _, err := fmt.Fprintln(w, "\nDAY\tVISITS"); err != nil {
			return fmt.Errorf("writing daily header: %w", err)
		}
		for _, d := range snap.Daily {
			if _, err := fmt.Fprintf(w, "%s\t%d\n", d.Date, d.Count); err != nil {
				return fmt.Errorf("writing daily row: %w", err)
			}
		}
	}

	return w.Flush()
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
