package geocoding

import (
	"context"
	"fmt"
	"marker-route-service/internal/domain"
	"marker-route-service/internal/platform/metrics"
	"marker-route-service/internal/platform/obs"
	"marker-route-service/internal/ports"
)

// CachingResolver checks a persistent geocode cache before calling the
// wrapped resolver, and stores fresh results. Cache write failures are logged
// and do not fail the lookup.
type CachingResolver struct {
	Next  ports.PositionResolver
	Cache ports.GeocodeCache
}

func NewCachingResolver(next ports.PositionResolver, cache ports.GeocodeCache) *CachingResolver {
	return &CachingResolver{Next: next, Cache: cache}
}

func (c *CachingResolver) Resolve(ctx context.Context, address string) (domain.GeoPoint, error) {
	norm := normalize(address)
	if norm == "" || c.Cache == nil {
		return c.Next.Resolve(ctx, address)
	}

	hits, err := c.Cache.GetMany(ctx, []string{norm})
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode cache: %w", err)
	}
	if p, ok := hits[norm]; ok {
		metrics.GeocodeRequests.WithLabelValues("cache", "hit").Inc()
		return p, nil
	}
	metrics.GeocodeRequests.WithLabelValues("cache", "miss").Inc()

	p, err := c.Next.Resolve(ctx, norm)
	if err != nil {
		return domain.GeoPoint{}, err
	}

	if err := c.Cache.PutMany(ctx, map[string]domain.GeoPoint{norm: p}); err != nil {
		obs.Logger().WithField("req_id", obs.RequestID(ctx)).WithError(err).Warn("geocode cache write failed")
	}

	return p, nil
}
