package services

import (
	"context"
	"errors"
	"fmt"
	"marker-route-service/internal/domain"
	"marker-route-service/internal/platform/obs"
	"marker-route-service/internal/ports"
	"strings"
	"time"
)

// DefaultResolveTimeout bounds a current-location lookup.
const DefaultResolveTimeout = 10 * time.Second

// LocationQuery describes where the user is.
// A typed Address is geocoded first; Position is used only when Address is blank.
type LocationQuery struct {
	Address  string
	Position *domain.GeoPoint
}

// ResolveCurrentLocation settles a LocationQuery into one GeoPoint.
//
// It is a single-shot call: it either yields a point or fails with an error
// wrapping domain.ErrResolutionFailed. There is no fallback location.
func ResolveCurrentLocation(
	ctx context.Context,
	resolver ports.PositionResolver,
	q LocationQuery,
	timeout time.Duration,
) (_ domain.GeoPoint, err error) {
	defer obs.Time(ctx, "location.Resolve")(&err)

	address := strings.TrimSpace(q.Address)
	if address == "" {
		if q.Position == nil {
			return domain.GeoPoint{}, fmt.Errorf("resolve location: no address or position given: %w", domain.ErrResolutionFailed)
		}
		if !q.Position.Valid() {
			return domain.GeoPoint{}, fmt.Errorf("resolve location: position %v: %w: %w",
				*q.Position, domain.ErrInvalidLocation, domain.ErrResolutionFailed)
		}
		return *q.Position, nil
	}

	if resolver == nil {
		return domain.GeoPoint{}, fmt.Errorf("resolve location: no geocoder configured: %w", domain.ErrResolutionFailed)
	}

	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p, err := resolver.Resolve(ctx, address)
	if err != nil {
		if errors.Is(err, domain.ErrResolutionFailed) {
			return domain.GeoPoint{}, fmt.Errorf("resolve location %q: %w", address, err)
		}
		return domain.GeoPoint{}, fmt.Errorf("resolve location %q: %w: %w", address, domain.ErrResolutionFailed, err)
	}

	if !p.Valid() {
		return domain.GeoPoint{}, fmt.Errorf("resolve location %q: resolver returned %v: %w",
			address, p, domain.ErrResolutionFailed)
	}

	return p, nil
}
