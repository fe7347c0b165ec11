package stats

import (
	"time"

	"github.com/evcraddock/reach/internal/pin"
)

// Snapshot is everything the dashboard and analytics views render for one
// timeframe.
type Snapshot struct {
	Timeframe    Timeframe        `json:"timeframe"`
	GeneratedAt  time.Time        `json:"generated_at"`
	Stats        DashboardStats   `json:"stats"`
	ResponseRate float64          `json:"response_rate"`
	PositiveRate float64          `json:"positive_rate"`
	Residences   []ResidenceCount `json:"residences"`
	Daily        []DailyCount     `json:"daily"`
}

// BuildSnapshot filters pins to tf and computes every view from the result.
// Day buckets use now's location.
func BuildSnapshot(pins []*pin.Pin, tf Timeframe, now time.Time) Snapshot {
	filtered := FilterByTimeframe(pins, tf, now)
	s := Compute(filtered)
	return Snapshot{
		Timeframe:    tf,
		GeneratedAt:  now,
		Stats:        s,
		ResponseRate: s.ResponseRate(),
		PositiveRate: s.PositiveRate(),
		Residences:   BreakdownByResidenceType(filtered),
		Daily:        DailyVisitSeries(filtered, now.Location()),
	}
}
