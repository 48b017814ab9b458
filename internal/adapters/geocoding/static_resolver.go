package geocoding

import (
	"context"
	"marker-route-service/internal/domain"
)

type StaticPlace struct {
	Address  string
	Lat, Lon float64
}

// StaticResolver answers from a fixed address table. Used in tests and for
// offline runs with GEOCODER=static.
type StaticResolver struct {
	m map[string]domain.GeoPoint
}

func NewStaticResolver(places []StaticPlace) *StaticResolver {
	m := make(map[string]domain.GeoPoint, len(places))
	for _, p := range places {
		m[normalize(p.Address)] = domain.GeoPoint{Lat: p.Lat, Lon: p.Lon}
	}
	return &StaticResolver{m: m}
}

func (s *StaticResolver) Resolve(ctx context.Context, address string) (domain.GeoPoint, error) {
	p, ok := s.m[normalize(address)]
	if !ok {
		return domain.GeoPoint{}, &Error{Provider: "static", Address: address, Reason: "no results found"}
	}

	return p, nil
}
