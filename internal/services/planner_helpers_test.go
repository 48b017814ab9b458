package services

import (
	"context"
	"marker-route-service/internal/domain"
	"marker-route-service/internal/ports"
	"math"
	"math/rand"
	"strconv"
)

// flat treats lat/lon as plane coordinates so expected totals are exact.
var flat = ports.DistanceFunc(func(a, b domain.GeoPoint) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lon-b.Lon)
})

func wp(id string, lat, lon float64) domain.Waypoint {
	return domain.Waypoint{ID: id, Address: id, Location: domain.GeoPoint{Lat: lat, Lon: lon}, Status: domain.StatusPending}
}

// unitSquare lists the corners of a unit square out of perimeter order.
func unitSquare() []domain.Waypoint {
	return []domain.Waypoint{
		wp("A", 0, 0),
		wp("C", 1, 1),
		wp("B", 0, 1),
		wp("D", 1, 0),
	}
}

func randomWaypoints(seed int64, n int) []domain.Waypoint {
	r := rand.New(rand.NewSource(seed))
	ws := make([]domain.Waypoint, n)
	for i := range ws {
		ws[i] = wp("w"+strconv.Itoa(i), 51.3+r.Float64()*0.4, -0.4+r.Float64()*0.6)
	}
	return ws
}

func sameIDs(t interface{ Fatalf(string, ...any) }, got []domain.Waypoint, want []string) {
	if len(got) != len(want) {
		t.Fatalf("expected %d stops, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("stop %d: expected %s, got %s", i, want[i], got[i].ID)
		}
	}
}

// isPermutationOf reports whether stops holds every input waypoint exactly once.
func isPermutationOf(stops, input []domain.Waypoint) bool {
	if len(stops) != len(input) {
		return false
	}
	seen := map[string]int{}
	for _, w := range input {
		seen[w.ID]++
	}
	for _, w := range stops {
		seen[w.ID]--
	}
	for _, c := range seen {
		if c != 0 {
			return false
		}
	}
	return true
}

type failingResolver struct {
	calls int
}

func (f *failingResolver) Resolve(ctx context.Context, address string) (domain.GeoPoint, error) {
	f.calls++
	return domain.GeoPoint{}, context.DeadlineExceeded
}

type fixedResolver struct {
	p     domain.GeoPoint
	calls int
}

func (f *fixedResolver) Resolve(ctx context.Context, address string) (domain.GeoPoint, error) {
	f.calls++
	return f.p, nil
}
