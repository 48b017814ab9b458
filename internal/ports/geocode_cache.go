package ports

import (
	"context"
	"marker-route-service/internal/domain"
)

// Persistent address -> coordinate cache used in front of a PositionResolver.
// Keys are expected to be normalized by the caller.
type GeocodeCache interface {
	// Return cached coordinates for the addresses that are present.
	GetMany(ctx context.Context, addresses []string) (map[string]domain.GeoPoint, error)
	// Store address -> coordinate mappings.
	PutMany(ctx context.Context, results map[string]domain.GeoPoint) error
}
