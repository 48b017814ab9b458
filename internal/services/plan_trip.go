package services

import (
	"context"
	"errors"
	"fmt"
	"marker-route-service/internal/domain"
	"marker-route-service/internal/ports"
	"strings"
	"time"
)

// CurrentLocationID identifies the synthetic waypoint inserted for the user's position.
const CurrentLocationID = "current-location"

type PlanTripRequest struct {
	Strategy       Strategy
	Location       LocationQuery
	PendingOnly    bool
	ResolveTimeout time.Duration
}

// PlanTrip plans a visiting order over the stored waypoints, starting at the
// user's current location.
//
// The current location is resolved first; planning is never attempted when
// resolution fails. The planner receives a snapshot of the store with the
// current location prepended as its own waypoint, so the route always begins
// there. Nothing is written back to the store.
func PlanTrip(
	ctx context.Context,
	req PlanTripRequest,
	repo ports.WaypointRepository,
	resolver ports.PositionResolver,
	planner *RoutePlanner,
) (*domain.RouteResult, error) {
	if planner == nil {
		return nil, errors.New("plan trip: planner must be non-nil")
	}

	current, err := ResolveCurrentLocation(ctx, resolver, req.Location, req.ResolveTimeout)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	stored, err := repo.ListWaypoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan trip: list waypoints: %w", err)
	}

	label := strings.TrimSpace(req.Location.Address)
	if label == "" {
		label = "Current location"
	}

	snapshot := make([]domain.Waypoint, 0, len(stored)+1)
	snapshot = append(snapshot, domain.Waypoint{
		ID:       CurrentLocationID,
		Address:  label,
		Location: current,
		Status:   domain.StatusPending,
	})
	for _, w := range stored {
		if req.PendingOnly && w.Status == domain.StatusDone {
			continue
		}
		snapshot = append(snapshot, w)
	}

	res, err := planner.PlanRoute(ctx, req.Strategy, current, snapshot)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	return res, nil
}
