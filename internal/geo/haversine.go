// Package geo holds the great-circle distance metric used by the route planners.
package geo

import (
	"marker-route-service/internal/domain"
	"marker-route-service/internal/ports"

	orbgeo "github.com/paulmach/orb/geo"
)

// Haversine returns the great-circle distance in meters between a and b on a
// spherical Earth of radius orb.EarthRadius. Inputs are degrees.
// The result is symmetric and exactly zero for equal points.
func Haversine(a, b domain.GeoPoint) float64 {
	if a.Equal(b) {
		return 0
	}
	return orbgeo.DistanceHaversine(a.OrbPoint(), b.OrbPoint())
}

// Metric is the default DistanceMetric for the service.
var Metric ports.DistanceMetric = ports.DistanceFunc(Haversine)

// WithinRadius reports whether b lies within radiusMeters of a.
func WithinRadius(a, b domain.GeoPoint, radiusMeters float64) bool {
	return Haversine(a, b) <= radiusMeters
}
