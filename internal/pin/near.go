package pin

import (
	"sort"

	"github.com/evcraddock/reach/internal/geo"
)

// Nearby is a pin paired with its distance from a query point.
type Nearby struct {
	*Pin
	DistanceMeters float64 `json:"distance_meters"`
}

// Near returns the pins within radiusMeters of center, nearest first.
func Near(pins []*Pin, center geo.Point, radiusMeters float64) []Nearby {
	out := []Nearby{}
	for _, p := range pins {
		d := geo.DistanceMeters(center, geo.Point{Lat: p.Latitude, Lon: p.Longitude})
		if d <= radiusMeters {
			out = append(out, Nearby{Pin: p, DistanceMeters: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceMeters < out[j].DistanceMeters
	})
	return out
}
