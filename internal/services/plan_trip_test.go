package services

import (
	"context"
	"errors"
	"marker-route-service/internal/adapters/repositories"
	"marker-route-service/internal/domain"
	"marker-route-service/internal/geo"
	"testing"
	"time"
)

type countingRepo struct {
	*repositories.MemoryWaypointRepository
	lists int
}

func (c *countingRepo) ListWaypoints(ctx context.Context) ([]domain.Waypoint, error) {
	c.lists++
	return c.MemoryWaypointRepository.ListWaypoints(ctx)
}

func londonRepo() *countingRepo {
	return &countingRepo{MemoryWaypointRepository: repositories.NewMemoryWaypointRepository(
		wp("tower", 51.5081, -0.0759),
		wp("abbey", 51.4993, -0.1273),
		wp("museum", 51.5194, -0.1270),
		domain.Waypoint{ID: "eye", Address: "eye", Location: domain.GeoPoint{Lat: 51.5033, Lon: -0.1196}, Status: domain.StatusDone},
	)}
}

func TestPlanTripResolutionFailureSkipsPlanning(t *testing.T) {
	repo := londonRepo()
	resolver := &failingResolver{}
	planner := NewRoutePlanner(geo.Metric, RoutePlannerOptions{})

	_, err := PlanTrip(context.Background(), PlanTripRequest{
		Location: LocationQuery{Address: "221B Baker Street"},
	}, repo, resolver, planner)

	if !errors.Is(err, domain.ErrResolutionFailed) {
		t.Fatalf("expected ErrResolutionFailed, got %v", err)
	}
	if resolver.calls != 1 {
		t.Fatalf("expected 1 resolver call, got %d", resolver.calls)
	}
	if repo.lists != 0 {
		t.Fatalf("expected store to be untouched, got %d list calls", repo.lists)
	}
}

func TestPlanTripNoLocationFails(t *testing.T) {
	_, err := PlanTrip(context.Background(), PlanTripRequest{}, londonRepo(), nil, NewRoutePlanner(geo.Metric, RoutePlannerOptions{}))
	if !errors.Is(err, domain.ErrResolutionFailed) {
		t.Fatalf("expected ErrResolutionFailed, got %v", err)
	}
}

func TestPlanTripStartsAtCurrentLocation(t *testing.T) {
	resolver := &fixedResolver{p: domain.GeoPoint{Lat: 51.5237, Lon: -0.1585}}
	planner := NewRoutePlanner(geo.Metric, RoutePlannerOptions{})

	for _, strategy := range []Strategy{StrategyExact, StrategyGreedy} {
		res, err := PlanTrip(context.Background(), PlanTripRequest{
			Strategy: strategy,
			Location: LocationQuery{Address: "221B Baker Street"},
		}, londonRepo(), resolver, planner)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", strategy, err)
		}

		if len(res.Stops) != 5 {
			t.Fatalf("%s: expected 5 stops, got %d", strategy, len(res.Stops))
		}
		first := res.Stops[0]
		if first.ID != CurrentLocationID || first.Address != "221B Baker Street" {
			t.Fatalf("%s: expected current location first, got %+v", strategy, first)
		}
	}
}

func TestPlanTripPositionSkipsResolver(t *testing.T) {
	resolver := &fixedResolver{}
	pos := domain.GeoPoint{Lat: 51.5007, Lon: -0.1246}

	res, err := PlanTrip(context.Background(), PlanTripRequest{
		Location:    LocationQuery{Position: &pos},
		PendingOnly: true,
	}, londonRepo(), resolver, NewRoutePlanner(geo.Metric, RoutePlannerOptions{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resolver.calls != 0 {
		t.Fatalf("expected resolver not to be called, got %d calls", resolver.calls)
	}
	if res.Stops[0].Address != "Current location" {
		t.Fatalf("expected default label, got %q", res.Stops[0].Address)
	}
	for _, s := range res.Stops {
		if s.ID == "eye" {
			t.Fatalf("done waypoint included with PendingOnly")
		}
	}
	if len(res.Stops) != 4 {
		t.Fatalf("expected 4 stops, got %d", len(res.Stops))
	}
}

func TestPlanTripTypedAddressBeatsPosition(t *testing.T) {
	resolver := &fixedResolver{p: domain.GeoPoint{Lat: 51.5237, Lon: -0.1585}}
	pos := domain.GeoPoint{Lat: 51.5007, Lon: -0.1246}

	res, err := PlanTrip(context.Background(), PlanTripRequest{
		Location: LocationQuery{Address: "221B Baker Street", Position: &pos},
	}, londonRepo(), resolver, NewRoutePlanner(geo.Metric, RoutePlannerOptions{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resolver.calls != 1 {
		t.Fatalf("expected typed address to be geocoded once, got %d calls", resolver.calls)
	}
	first := res.Stops[0]
	if first.Location != resolver.p {
		t.Fatalf("expected start at geocoded address %v, got %v", resolver.p, first.Location)
	}
	if first.Address != "221B Baker Street" {
		t.Fatalf("expected address label, got %q", first.Address)
	}
}

func TestResolveCurrentLocationBlankAddressUsesPosition(t *testing.T) {
	resolver := &fixedResolver{p: domain.GeoPoint{Lat: 1, Lon: 1}}
	pos := domain.GeoPoint{Lat: 51.5007, Lon: -0.1246}

	got, err := ResolveCurrentLocation(context.Background(), resolver, LocationQuery{Address: "   ", Position: &pos}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != pos || resolver.calls != 0 {
		t.Fatalf("expected device position without geocoding, got %v after %d calls", got, resolver.calls)
	}
}

func TestResolveCurrentLocationRejectsInvalidPosition(t *testing.T) {
	bad := domain.GeoPoint{Lat: 123, Lon: 0}
	_, err := ResolveCurrentLocation(context.Background(), nil, LocationQuery{Position: &bad}, 0)
	if !errors.Is(err, domain.ErrInvalidLocation) || !errors.Is(err, domain.ErrResolutionFailed) {
		t.Fatalf("expected invalid location and resolution failure, got %v", err)
	}
}

type slowResolver struct{}

func (slowResolver) Resolve(ctx context.Context, address string) (domain.GeoPoint, error) {
	<-ctx.Done()
	return domain.GeoPoint{}, ctx.Err()
}

func TestResolveCurrentLocationTimesOut(t *testing.T) {
	started := time.Now()
	_, err := ResolveCurrentLocation(context.Background(), slowResolver{}, LocationQuery{Address: "anywhere"}, 20*time.Millisecond)

	if !errors.Is(err, domain.ErrResolutionFailed) {
		t.Fatalf("expected ErrResolutionFailed, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error to be wrapped, got %v", err)
	}
	if time.Since(started) > 2*time.Second {
		t.Fatalf("resolution did not honour timeout")
	}
}
