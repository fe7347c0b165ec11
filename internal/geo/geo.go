// Package geo holds the coordinate helpers used for nearby-pin queries and
// for picking a reporting timezone from a location.
package geo

import (
	"time"

	"github.com/bradfitz/latlong"
	"github.com/umahmood/haversine"
)

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DistanceMeters returns the great-circle distance between a and b.
func DistanceMeters(a, b Point) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Lat, Lon: a.Lon},
		haversine.Coord{Lat: b.Lat, Lon: b.Lon},
	)
	return km * 1000
}

// ZoneFor returns the timezone covering the coordinate, or UTC when the
// lookup finds nothing (open ocean) or the zone cannot be loaded.
func ZoneFor(lat, lon float64) *time.Location {
	name := latlong.LookupZoneName(lat, lon)
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
