package geo

import (
	"marker-route-service/internal/domain"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineZeroForSamePoint(t *testing.T) {
	p := domain.GeoPoint{Lat: 51.505, Lon: -0.09}
	require.Equal(t, 0.0, Haversine(p, p))
}

func TestHaversineSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		a := domain.GeoPoint{Lat: rng.Float64()*180 - 90, Lon: rng.Float64()*360 - 180}
		b := domain.GeoPoint{Lat: rng.Float64()*180 - 90, Lon: rng.Float64()*360 - 180}
		d1, d2 := Haversine(a, b), Haversine(b, a)
		require.Equal(t, d1, d2, "distance(%v,%v)", a, b)
		require.GreaterOrEqual(t, d1, 0.0)
	}
}

func TestHaversineKnownDistances(t *testing.T) {
	// One degree of latitude on a sphere of radius 6378137 m.
	oneDegree := 6378137.0 * 3.141592653589793 / 180
	d := Haversine(domain.GeoPoint{Lat: 0, Lon: 0}, domain.GeoPoint{Lat: 1, Lon: 0})
	assert.InDelta(t, oneDegree, d, 1e-6)

	// London -> Paris is roughly 344 km.
	london := domain.GeoPoint{Lat: 51.5074, Lon: -0.1278}
	paris := domain.GeoPoint{Lat: 48.8566, Lon: 2.3522}
	assert.InDelta(t, 344_000, Haversine(london, paris), 2_000)
}

func TestHaversineShrinksWithLatitude(t *testing.T) {
	// One degree of longitude is much shorter near the pole than at the equator.
	equator := Haversine(domain.GeoPoint{Lat: 0, Lon: 0}, domain.GeoPoint{Lat: 0, Lon: 1})
	polar := Haversine(domain.GeoPoint{Lat: 80, Lon: 0}, domain.GeoPoint{Lat: 80, Lon: 1})
	assert.Less(t, polar, equator/4)
}

func TestWithinRadius(t *testing.T) {
	a := domain.GeoPoint{Lat: 51.5, Lon: -0.09}
	b := domain.GeoPoint{Lat: 51.503, Lon: -0.09} // ~334 m north
	assert.True(t, WithinRadius(a, b, 500))
	assert.False(t, WithinRadius(a, b, 100))
}

func TestMetricUsesHaversine(t *testing.T) {
	a := domain.GeoPoint{Lat: 1, Lon: 2}
	b := domain.GeoPoint{Lat: 3, Lon: 4}
	assert.Equal(t, Haversine(a, b), Metric.Distance(a, b))
}
