package services

import (
	"context"
	"fmt"
	"marker-route-service/internal/domain"
	"marker-route-service/internal/platform/metrics"
	"marker-route-service/internal/platform/obs"
	"marker-route-service/internal/ports"
	"strings"
	"time"
)

// Strategy selects a route planner.
type Strategy string

const (
	StrategyExact  Strategy = "exact"
	StrategyGreedy Strategy = "greedy"
	// StrategyAuto picks exact for small waypoint sets and greedy otherwise.
	StrategyAuto Strategy = "auto"
)

// DefaultExactMax is the largest waypoint count planned exhaustively by StrategyAuto.
// 8! = 40320 closed tours stay well inside interactive latency.
const DefaultExactMax = 8

// ParseStrategy accepts "exact", "greedy" and "auto"; empty means auto.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyAuto:
		return StrategyAuto, nil
	case StrategyExact:
		return StrategyExact, nil
	case StrategyGreedy:
		return StrategyGreedy, nil
	default:
		return "", fmt.Errorf("parse strategy: unknown strategy %q", s)
	}
}

// Planner is the shared contract of every route planner:
// a waypoint set and a start position in, an ordered route and its total out.
type Planner interface {
	Plan(ctx context.Context, start domain.GeoPoint, waypoints []domain.Waypoint) (*domain.RouteResult, error)
}

// RoutePlannerOptions configures NewRoutePlanner.
type RoutePlannerOptions struct {
	ExactMax     int
	ExactWorkers int
	Epsilon      float64
}

// RoutePlanner dispatches planning calls to the exact or greedy planner.
type RoutePlanner struct {
	Exact    Planner
	Greedy   Planner
	ExactMax int
}

func NewRoutePlanner(metric ports.DistanceMetric, opts RoutePlannerOptions) *RoutePlanner {
	exactMax := opts.ExactMax
	if exactMax <= 0 {
		exactMax = DefaultExactMax
	}

	return &RoutePlanner{
		Exact:    NewExactRoutePlanner(metric, opts.Epsilon, opts.ExactWorkers),
		Greedy:   NewGreedyRoutePlanner(metric, opts.Epsilon),
		ExactMax: exactMax,
	}
}

// Select resolves strategy for n waypoints.
// An explicit exact request above ExactMax fails with domain.ErrTooManyWaypoints.
func (r *RoutePlanner) Select(strategy Strategy, n int) (Strategy, error) {
	switch strategy {
	case StrategyExact:
		if n > r.ExactMax {
			return "", fmt.Errorf("select planner: %d waypoints, limit %d: %w", n, r.ExactMax, domain.ErrTooManyWaypoints)
		}
		return StrategyExact, nil
	case StrategyGreedy:
		return StrategyGreedy, nil
	case StrategyAuto, "":
		if n <= r.ExactMax {
			return StrategyExact, nil
		}
		return StrategyGreedy, nil
	default:
		return "", fmt.Errorf("select planner: unknown strategy %q", strategy)
	}
}

// PlanRoute plans a visiting order for waypoints starting at start.
func (r *RoutePlanner) PlanRoute(
	ctx context.Context,
	strategy Strategy,
	start domain.GeoPoint,
	waypoints []domain.Waypoint,
) (_ *domain.RouteResult, err error) {
	defer obs.Time(ctx, "route.PlanRoute")(&err)

	chosen, err := r.Select(strategy, len(waypoints))
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	planner := r.Greedy
	if chosen == StrategyExact {
		planner = r.Exact
	}

	started := time.Now()
	res, err := planner.Plan(ctx, start, waypoints)
	metrics.ObservePlan(string(chosen), len(waypoints), started, err)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	return res, nil
}
