package domain

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Immutable geographic point in degrees (latitude, longitude).
type GeoPoint struct {
	Lat float64
	Lon float64
}

// Equal reports exact coordinate equality.
func (p GeoPoint) Equal(o GeoPoint) bool { return p.Lat == o.Lat && p.Lon == o.Lon }

// ApproxEqual reports equality within eps degrees on both axes.
// A non-positive eps falls back to exact comparison.
func (p GeoPoint) ApproxEqual(o GeoPoint, eps float64) bool {
	if eps <= 0 {
		return p.Equal(o)
	}
	return math.Abs(p.Lat-o.Lat) <= eps && math.Abs(p.Lon-o.Lon) <= eps
}

// Valid reports whether the point is finite and inside the lat/lon ranges.
func (p GeoPoint) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Return the point as orb.Point ([lon, lat]) for geo and GeoJSON code.
func (p GeoPoint) OrbPoint() orb.Point { return orb.Point{p.Lon, p.Lat} }

func (p GeoPoint) String() string { return fmt.Sprintf("(%.6f,%.6f)", p.Lat, p.Lon) }
