package ports

import "marker-route-service/internal/domain"

// Contract for the distance between two geographic points.
// Implementations must be pure: non-negative, symmetric and zero for identical points.
type DistanceMetric interface {
	Distance(a, b domain.GeoPoint) float64
}

// DistanceFunc adapts an ordinary function to DistanceMetric.
type DistanceFunc func(a, b domain.GeoPoint) float64

func (f DistanceFunc) Distance(a, b domain.GeoPoint) float64 { return f(a, b) }
