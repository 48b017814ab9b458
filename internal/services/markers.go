package services

import (
	"context"
	"errors"
	"fmt"
	"marker-route-service/internal/domain"
	"marker-route-service/internal/geo"
	"marker-route-service/internal/platform/obs"
	"marker-route-service/internal/ports"
	"strings"

	"github.com/google/uuid"
)

// DefaultToggleRadiusMeters is how close a map click must be to flip a marker.
const DefaultToggleRadiusMeters = 500.0

// MarkerService manages the host-owned waypoint store: adding markers by
// address or by position, and flipping their done/pending status.
type MarkerService struct {
	Repo     ports.WaypointRepository
	Resolver ports.PositionResolver
}

func NewMarkerService(repo ports.WaypointRepository, resolver ports.PositionResolver) *MarkerService {
	return &MarkerService{Repo: repo, Resolver: resolver}
}

// AddByAddress geocodes address and stores it as a new waypoint.
// Nothing is stored when geocoding fails.
func (s *MarkerService) AddByAddress(
	ctx context.Context,
	address string,
	status domain.Status,
) (_ domain.Waypoint, err error) {
	defer obs.Time(ctx, "markers.AddByAddress")(&err)

	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Waypoint{}, errors.New("add marker: address must be non-empty")
	}
	if s.Resolver == nil {
		return domain.Waypoint{}, errors.New("add marker: no geocoder configured")
	}

	p, err := s.Resolver.Resolve(ctx, address)
	if err != nil {
		return domain.Waypoint{}, fmt.Errorf("add marker: geocode %q: %w", address, err)
	}

	return s.AddAt(ctx, address, p, status)
}

// AddAt stores a new waypoint at p without geocoding.
func (s *MarkerService) AddAt(
	ctx context.Context,
	address string,
	p domain.GeoPoint,
	status domain.Status,
) (domain.Waypoint, error) {
	if !p.Valid() {
		return domain.Waypoint{}, fmt.Errorf("add marker: %v: %w", p, domain.ErrInvalidLocation)
	}
	if status == "" {
		status = domain.StatusPending
	}

	w := domain.Waypoint{
		ID:       uuid.NewString(),
		Address:  strings.TrimSpace(address),
		Location: p,
		Status:   status,
	}
	if err := s.Repo.SaveWaypoint(ctx, w); err != nil {
		return domain.Waypoint{}, fmt.Errorf("add marker: save: %w", err)
	}

	return w, nil
}

func (s *MarkerService) List(ctx context.Context) ([]domain.Waypoint, error) {
	ws, err := s.Repo.ListWaypoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("list markers: %w", err)
	}
	return ws, nil
}

func (s *MarkerService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.DeleteWaypoint(ctx, id); err != nil {
		return fmt.Errorf("delete marker %q: %w", id, err)
	}
	return nil
}

// Toggle flips one waypoint between pending and done.
func (s *MarkerService) Toggle(ctx context.Context, id string) (domain.Waypoint, error) {
	w, err := s.Repo.ToggleStatus(ctx, id)
	if err != nil {
		return domain.Waypoint{}, fmt.Errorf("toggle marker %q: %w", id, err)
	}
	return w, nil
}

// ToggleNear flips every waypoint within radiusMeters of a clicked point and
// returns the updated waypoints. A non-positive radius uses DefaultToggleRadiusMeters.
func (s *MarkerService) ToggleNear(
	ctx context.Context,
	click domain.GeoPoint,
	radiusMeters float64,
) (_ []domain.Waypoint, err error) {
	defer obs.Time(ctx, "markers.ToggleNear")(&err)

	if !click.Valid() {
		return nil, fmt.Errorf("toggle near: %v: %w", click, domain.ErrInvalidLocation)
	}
	if radiusMeters <= 0 {
		radiusMeters = DefaultToggleRadiusMeters
	}

	ws, err := s.Repo.ListWaypoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("toggle near: list: %w", err)
	}

	toggled := []domain.Waypoint{}
	for _, w := range ws {
		if !geo.WithinRadius(w.Location, click, radiusMeters) {
			continue
		}

		updated, err := s.Repo.ToggleStatus(ctx, w.ID)
		if errors.Is(err, domain.ErrWaypointNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("toggle near: %w", err)
		}
		toggled = append(toggled, updated)
	}

	return toggled, nil
}
