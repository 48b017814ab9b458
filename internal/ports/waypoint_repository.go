package ports

import (
	"context"
	"marker-route-service/internal/domain"
)

// Port: the host-owned marker store, mapping waypoint identity to Waypoint.
// Planners never touch it; they receive a snapshot from ListWaypoints.
type WaypointRepository interface {
	// Retrieve all waypoints in insertion order.
	ListWaypoints(ctx context.Context) ([]domain.Waypoint, error)
	// Retrieve one waypoint; domain.ErrWaypointNotFound when missing.
	GetWaypoint(ctx context.Context, id string) (domain.Waypoint, error)
	// Insert or replace a waypoint.
	SaveWaypoint(ctx context.Context, w domain.Waypoint) error
	// Update the status of one waypoint; domain.ErrWaypointNotFound when missing.
	SetStatus(ctx context.Context, id string, status domain.Status) error
	// Flip one waypoint between pending and done in a single step and return it.
	// domain.ErrWaypointNotFound when missing.
	ToggleStatus(ctx context.Context, id string) (domain.Waypoint, error)
	// Remove one waypoint; domain.ErrWaypointNotFound when missing.
	DeleteWaypoint(ctx context.Context, id string) error
}
