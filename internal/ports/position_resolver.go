package ports

import (
	"context"
	"marker-route-service/internal/domain"
)

// Resolves a free-text location (address, place name) to coordinates.
type PositionResolver interface {
	Resolve(ctx context.Context, query string) (domain.GeoPoint, error)
}
