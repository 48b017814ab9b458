package services

import (
	"context"
	"fmt"
	"marker-route-service/internal/domain"
	"marker-route-service/internal/ports"
	"math"

	"golang.org/x/sync/errgroup"
)

// cancelCheckInterval is how many evaluated arrangements pass between context checks.
const cancelCheckInterval = 1 << 12

// ExactRoutePlanner finds the ordering with the minimum closed-tour distance
// by enumerating every permutation of the waypoint set (Heap's algorithm).
//
// Time complexity: O(n! · n). Callers are responsible for capping n; about ten
// waypoints is the practical limit for interactive latency. RoutePlanner
// enforces the cap through ExactMax.
//
// The identity ordering (input order) is the initial best, and a permutation
// replaces the best only when strictly shorter, so the result is never worse
// than the input order. Sequentially, ties keep the earlier arrangement in
// Heap order. With Workers > 1 each partition keeps its own first minimum and
// partitions are reduced by last-slot index, so an equal-cost route may differ
// from the sequential one. The total distance is the same either way.
//
// The returned stops are rotated so the first waypoint located at start leads
// the route. Rotation does not change a closed tour's length. When no waypoint
// matches start the optimal order is returned as found.
type ExactRoutePlanner struct {
	Metric ports.DistanceMetric
	// Epsilon is the coordinate tolerance, in degrees, used to locate start.
	Epsilon float64
	// Workers > 1 partitions the permutation tree across goroutines.
	Workers int
}

func NewExactRoutePlanner(metric ports.DistanceMetric, epsilon float64, workers int) *ExactRoutePlanner {
	return &ExactRoutePlanner{Metric: metric, Epsilon: epsilon, Workers: workers}
}

func (p *ExactRoutePlanner) Plan(
	ctx context.Context,
	start domain.GeoPoint,
	waypoints []domain.Waypoint,
) (*domain.RouteResult, error) {
	n := len(waypoints)
	if n == 0 {
		return nil, fmt.Errorf("exact route: %w", domain.ErrEmptyInput)
	}

	points := make([]domain.GeoPoint, n)
	for i, w := range waypoints {
		points[i] = w.Location
	}

	var (
		order []int
		err   error
	)
	if p.Workers > 1 && n > 2 {
		order, err = p.searchParallel(ctx, points)
	} else {
		order, err = p.search(ctx, points)
	}
	if err != nil {
		return nil, fmt.Errorf("exact route: %w", err)
	}

	if si := findStart(start, waypoints, p.Epsilon); si >= 0 {
		order = rotateTo(order, si)
	}

	stops := make([]domain.Waypoint, n)
	for i, idx := range order {
		stops[i] = waypoints[idx]
	}

	return newResult(StrategyExact, p.Metric, stops), nil
}

// search walks the whole permutation tree on one goroutine.
func (p *ExactRoutePlanner) search(ctx context.Context, points []domain.GeoPoint) ([]int, error) {
	idx := identity(len(points))
	best := append([]int(nil), idx...)
	bestCost := indexTourDistance(p.Metric, points, idx)

	s := &tourSearch{ctx: ctx, metric: p.Metric, points: points, best: best, bestCost: bestCost}
	heapPermute(idx, len(idx), s.visit)
	if s.err != nil {
		return nil, s.err
	}
	return s.best, nil
}

// searchParallel splits the tree by the element placed in the last slot.
// Every partition permutes the leading n-1 slots of its own index array, so
// the partitions together cover all n! arrangements exactly once.
func (p *ExactRoutePlanner) searchParallel(ctx context.Context, points []domain.GeoPoint) ([]int, error) {
	n := len(points)
	results := make([]*tourSearch, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Workers)

	for last := 0; last < n; last++ {
		g.Go(func() error {
			idx := identity(n)
			idx[last], idx[n-1] = idx[n-1], idx[last]

			s := &tourSearch{ctx: gctx, metric: p.Metric, points: points, bestCost: math.Inf(1)}
			heapPermute(idx, n-1, s.visit)
			if s.err != nil {
				return s.err
			}
			results[last] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Reduce in partition order so the outcome does not depend on scheduling.
	best := identity(n)
	bestCost := indexTourDistance(p.Metric, points, best)
	for _, r := range results {
		if r.best != nil && r.bestCost < bestCost {
			best, bestCost = r.best, r.bestCost
		}
	}
	return best, nil
}

// tourSearch tracks the shortest closed tour seen by one permutation walk.
type tourSearch struct {
	ctx      context.Context
	metric   ports.DistanceMetric
	points   []domain.GeoPoint
	best     []int
	bestCost float64
	visits   int
	err      error
}

func (s *tourSearch) visit(order []int) bool {
	s.visits++
	if s.visits%cancelCheckInterval == 0 {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return false
		}
	}

	cost := indexTourDistance(s.metric, s.points, order)
	if cost < s.bestCost {
		s.bestCost = cost
		s.best = append(s.best[:0], order...)
	}
	return true
}

// heapPermute visits every arrangement of the first k entries of idx exactly
// once, mutating idx in place with a single swap between visits. visit sees
// the whole slice; returning false stops the walk.
func heapPermute(idx []int, k int, visit func([]int) bool) bool {
	var generate func(k int) bool
	generate = func(k int) bool {
		if k <= 1 {
			return visit(idx)
		}
		for i := 0; i < k-1; i++ {
			if !generate(k - 1) {
				return false
			}
			if k%2 == 0 {
				idx[i], idx[k-1] = idx[k-1], idx[i]
			} else {
				idx[0], idx[k-1] = idx[k-1], idx[0]
			}
		}
		return generate(k - 1)
	}
	return generate(k)
}

func identity(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// rotateTo returns order rotated so that value v comes first.
func rotateTo(order []int, v int) []int {
	for i, x := range order {
		if x == v {
			out := make([]int, 0, len(order))
			out = append(out, order[i:]...)
			return append(out, order[:i]...)
		}
	}
	return order
}
