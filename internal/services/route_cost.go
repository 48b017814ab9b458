package services

import (
	"marker-route-service/internal/domain"
	"marker-route-service/internal/ports"
)

// PathDistance sums consecutive legs without returning to the first stop.
func PathDistance(metric ports.DistanceMetric, stops []domain.Waypoint) float64 {
	total := 0.0
	for i := 0; i+1 < len(stops); i++ {
		total += metric.Distance(stops[i].Location, stops[i+1].Location)
	}
	return total
}

// TourDistance is PathDistance plus the closing leg from the last stop back to the first.
func TourDistance(metric ports.DistanceMetric, stops []domain.Waypoint) float64 {
	if len(stops) == 0 {
		return 0
	}
	return PathDistance(metric, stops) + metric.Distance(stops[len(stops)-1].Location, stops[0].Location)
}

// LegDistances returns one entry per stop: leg i runs from stop i to stop i+1,
// and the last entry is the closing leg back to the first stop.
func LegDistances(metric ports.DistanceMetric, stops []domain.Waypoint) []float64 {
	legs := make([]float64, len(stops))
	for i := range stops {
		next := stops[(i+1)%len(stops)]
		legs[i] = metric.Distance(stops[i].Location, next.Location)
	}
	return legs
}

// indexTourDistance scores a closed tour given as indexes into points.
func indexTourDistance(metric ports.DistanceMetric, points []domain.GeoPoint, order []int) float64 {
	n := len(order)
	total := 0.0
	for i := 0; i < n-1; i++ {
		total += metric.Distance(points[order[i]], points[order[i+1]])
	}
	return total + metric.Distance(points[order[n-1]], points[order[0]])
}

// newResult builds a RouteResult scored as a closed tour.
func newResult(strategy Strategy, metric ports.DistanceMetric, stops []domain.Waypoint) *domain.RouteResult {
	legs := LegDistances(metric, stops)
	total := 0.0
	for _, l := range legs {
		total += l
	}
	return &domain.RouteResult{
		Strategy:            string(strategy),
		Stops:               stops,
		LegDistancesMeters:  legs,
		TotalDistanceMeters: total,
	}
}

// findStart returns the index of the first waypoint located at start, or -1.
func findStart(start domain.GeoPoint, waypoints []domain.Waypoint, eps float64) int {
	for i, w := range waypoints {
		if w.Location.ApproxEqual(start, eps) {
			return i
		}
	}
	return -1
}
