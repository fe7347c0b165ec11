// Package stats computes the dashboard and analytics figures from a snapshot
// of pins. Every function here is pure: callers re-query the store and
// recompute whenever they need fresh numbers.
package stats

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evcraddock/reach/internal/pin"
)

// ErrUnknownTimeframe is returned by ParseTimeframe for unrecognized names.
var ErrUnknownTimeframe = errors.New("unknown timeframe")

// Timeframe is a named reporting window.
type Timeframe string

const (
	Day   Timeframe = "day"
	Week  Timeframe = "week"
	Month Timeframe = "month"
	All   Timeframe = "all"
)

// Timeframes lists the reporting windows, narrowest first.
var Timeframes = []Timeframe{Day, Week, Month, All}

// Label returns a human-readable label for the timeframe.
func (tf Timeframe) Label() string {
	switch tf {
	case Day:
		return "Today"
	case Week:
		return "Last 7 days"
	case Month:
		return "Last month"
	default:
		return "All time"
	}
}

// ParseTimeframe parses a timeframe name. An empty string means All.
func ParseTimeframe(s string) (Timeframe, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return All, nil
	}
	for _, tf := range Timeframes {
		if s == string(tf) {
			return tf, nil
		}
	}
	return "", fmt.Errorf("%w: %q (use day, week, month or all)", ErrUnknownTimeframe, s)
}

// FilterByTimeframe keeps the pins that fall inside tf as seen from now.
// Calendar boundaries are taken in now's location. Input order is preserved.
//
//   - Day: same calendar day as now.
//   - Week: on or after now minus 7 calendar days.
//   - Month: on or after now minus one calendar month.
//   - All, or any unrecognized value: every pin.
func FilterByTimeframe(pins []*pin.Pin, tf Timeframe, now time.Time) []*pin.Pin {
	if tf != Day && tf != Week && tf != Month {
		return append([]*pin.Pin(nil), pins...)
	}

	var keep func(t time.Time) bool
	switch tf {
	case Day:
		today := startOfDay(now, now.Location())
		keep = func(t time.Time) bool {
			return startOfDay(t, now.Location()).Equal(today)
		}
	case Week:
		cutoff := now.AddDate(0, 0, -7)
		keep = func(t time.Time) bool { return !t.Before(cutoff) }
	case Month:
		cutoff := oneMonthBefore(now)
		keep = func(t time.Time) bool { return !t.Before(cutoff) }
	}

	out := make([]*pin.Pin, 0, len(pins))
	for _, p := range pins {
		if keep(p.Timestamp) {
			out = append(out, p)
		}
	}
	return out
}

// startOfDay truncates t to local midnight in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// oneMonthBefore steps back one calendar month, clamping the day to the end
// of the shorter month (Mar 31 -> Feb 28) instead of overflowing like AddDate.
func oneMonthBefore(now time.Time) time.Time {
	y, m, d := now.Date()
	hh, mm, ss := now.Clock()

	first := time.Date(y, m-1, 1, 0, 0, 0, 0, now.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, now.Nanosecond(), now.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
