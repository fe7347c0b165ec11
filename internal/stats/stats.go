package stats

import "github.com/evcraddock/reach/internal/pin"

// DashboardStats is the fixed-shape summary shown on the dashboard.
// Answered+NoAnswer always equals TotalVisits, and Positive+Negative always
// equals Answered.
type DashboardStats struct {
	TotalVisits int `json:"total_visits"`
	Answered    int `json:"answered"`
	NoAnswer    int `json:"no_answer"`
	Positive    int `json:"positive"`
	Negative    int `json:"negative"`
}

// Compute tallies pins. Responses count only on answered pins.
func Compute(pins []*pin.Pin) DashboardStats {
	var s DashboardStats
	for _, p := range pins {
		s.TotalVisits++
		response, answered := p.Response()
		if !answered {
			s.NoAnswer++
			continue
		}
		s.Answered++
		if response == pin.Negative {
			s.Negative++
		} else {
			s.Positive++
		}
	}
	return s
}

// ResponseRate is Answered/TotalVisits, or 0 with no visits.
func (s DashboardStats) ResponseRate() float64 {
	return ratio(s.Answered, s.TotalVisits)
}

// PositiveRate is Positive/Answered, or 0 with no answered visits.
func (s DashboardStats) PositiveRate() float64 {
	return ratio(s.Positive, s.Answered)
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// ResidenceCount is one bar of the residence-type chart.
type ResidenceCount struct {
	ResidenceType pin.ResidenceType `json:"residence_type"`
	Label         string            `json:"label"`
	Count         int               `json:"count"`
}

// BreakdownByResidenceType counts pins per residence type. The result always
// has one entry per type, in pin.ResidenceTypes order, including zeros.
func BreakdownByResidenceType(pins []*pin.Pin) []ResidenceCount {
	index := make(map[pin.ResidenceType]int, len(pin.ResidenceTypes))
	out := make([]ResidenceCount, len(pin.ResidenceTypes))
	for i, rt := range pin.ResidenceTypes {
		index[rt] = i
		out[i] = ResidenceCount{ResidenceType: rt, Label: rt.Label()}
	}

	for _, p := range pins {
		i, ok := index[p.ResidenceType]
		if !ok {
			i = index[pin.Other]
		}
		out[i].Count++
	}
	return out
}
