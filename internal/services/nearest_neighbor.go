package services

import (
	"context"
	"fmt"
	"marker-route-service/internal/domain"
	"marker-route-service/internal/ports"
)

// GreedyRoutePlanner builds a route with the nearest-neighbor heuristic.
//
// The route starts at the waypoint located at start and is extended, one stop
// at a time, with the closest unvisited waypoint to the current route tail.
// It runs in O(n²), is deterministic and is not optimal.
//
// start must be a member of the waypoint set (the caller inserts the current
// location before planning); otherwise domain.ErrStartNotFound is returned.
type GreedyRoutePlanner struct {
	Metric ports.DistanceMetric
	// Epsilon is the coordinate tolerance, in degrees, used to locate start.
	Epsilon float64
}

func NewGreedyRoutePlanner(metric ports.DistanceMetric, epsilon float64) *GreedyRoutePlanner {
	return &GreedyRoutePlanner{Metric: metric, Epsilon: epsilon}
}

func (p *GreedyRoutePlanner) Plan(
	ctx context.Context,
	start domain.GeoPoint,
	waypoints []domain.Waypoint,
) (*domain.RouteResult, error) {
	if len(waypoints) == 0 {
		return nil, fmt.Errorf("greedy route: %w", domain.ErrEmptyInput)
	}

	si := findStart(start, waypoints, p.Epsilon)
	if si < 0 {
		return nil, fmt.Errorf("greedy route: start %v: %w", start, domain.ErrStartNotFound)
	}

	// remaining keeps input order so the left-to-right scan is stable.
	remaining := make([]domain.Waypoint, 0, len(waypoints)-1)
	remaining = append(remaining, waypoints[:si]...)
	remaining = append(remaining, waypoints[si+1:]...)

	stops := make([]domain.Waypoint, 0, len(waypoints))
	stops = append(stops, waypoints[si])

	for len(remaining) > 0 {
		tail := stops[len(stops)-1].Location

		best := -1
		var minDistance float64

		// Select next stop by minimum distance (greedy step).
		for i, w := range remaining {
			d := p.Metric.Distance(tail, w.Location)
			// Strict comparison: the first waypoint seen wins a tie.
			if best < 0 || d < minDistance {
				best = i
				minDistance = d
			}
		}

		stops = append(stops, remaining[best])
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return newResult(StrategyGreedy, p.Metric, stops), nil
}
