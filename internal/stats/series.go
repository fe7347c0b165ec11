package stats

import (
	"sort"
	"time"

	"github.com/evcraddock/reach/internal/pin"
)

// DailyCount is one point of the visits-per-day trend.
type DailyCount struct {
	Day   time.Time `json:"day"`
	Date  string    `json:"date"` // YYYY-MM-DD in the series location
	Count int       `json:"count"`
}

// DailyVisitSeries buckets pins by local calendar day in loc, ascending.
// The series is sparse: days without pins are not emitted.
func DailyVisitSeries(pins []*pin.Pin, loc *time.Location) []DailyCount {
	if loc == nil {
		loc = time.Local
	}

	buckets := make(map[string]*DailyCount)
	for _, p := range pins {
		day := startOfDay(p.Timestamp, loc)
		key := day.Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			b = &DailyCount{Day: day, Date: key}
			buckets[key] = b
		}
		b.Count++
	}

	out := make([]DailyCount, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Day.Before(out[j].Day)
	})
	return out
}
