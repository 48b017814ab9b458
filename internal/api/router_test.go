package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"marker-route-service/internal/adapters/geocoding"
	"marker-route-service/internal/adapters/repositories"
	"marker-route-service/internal/api/dto"
	"marker-route-service/internal/domain"
	"marker-route-service/internal/geo"
	"marker-route-service/internal/services"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *repositories.MemoryWaypointRepository) {
	t.Helper()

	repo := repositories.NewMemoryWaypointRepository(
		domain.Waypoint{ID: "tower", Address: "Tower of London", Location: domain.GeoPoint{Lat: 51.5081, Lon: -0.0759}, Status: domain.StatusPending},
		domain.Waypoint{ID: "abbey", Address: "Westminster Abbey", Location: domain.GeoPoint{Lat: 51.4993, Lon: -0.1273}, Status: domain.StatusPending},
		domain.Waypoint{ID: "museum", Address: "British Museum", Location: domain.GeoPoint{Lat: 51.5194, Lon: -0.1270}, Status: domain.StatusDone},
	)
	resolver := geocoding.NewStaticResolver([]geocoding.StaticPlace{
		{Address: "221B Baker Street", Lat: 51.5237, Lon: -0.1585},
		{Address: "Big Ben", Lat: 51.5007, Lon: -0.1246},
	})

	h := NewRouter(Deps{
		Repo:            repo,
		Resolver:        resolver,
		Planner:         services.NewRoutePlanner(geo.Metric, services.RoutePlannerOptions{}),
		DefaultStrategy: services.StrategyAuto,
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, repo
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body struct {
		Status    string `json:"status"`
		Waypoints int    `json:"waypoints"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 3, body.Waypoints)

	post := postJSON(t, srv.URL+"/health", map[string]string{})
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
	assert.Equal(t, "GET, HEAD", post.Header.Get("Allow"))
}

type unavailableRepo struct {
	*repositories.MemoryWaypointRepository
}

func (unavailableRepo) ListWaypoints(ctx context.Context) ([]domain.Waypoint, error) {
	return nil, errors.New("database is locked")
}

func TestHealthReportsUnavailableStore(t *testing.T) {
	h := NewRouter(Deps{
		Repo:    unavailableRepo{repositories.NewMemoryWaypointRepository()},
		Planner: services.NewRoutePlanner(geo.Metric, services.RoutePlannerOptions{}),
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "req-42", resp.Header.Get("X-Request-ID"))
}

func TestListWaypoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/waypoints")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.ListWaypointsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Waypoints, 3)
	assert.Equal(t, "tower", body.Waypoints[0].ID)
	assert.Equal(t, "done", body.Waypoints[2].Status)
}

func TestCreateWaypoint(t *testing.T) {
	srv, repo := newTestServer(t)

	resp := postJSON(t, srv.URL+"/waypoints", map[string]any{"address": "Big Ben"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created dto.WaypointResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, 51.5007, created.Lat)
	assert.Equal(t, "pending", created.Status)

	stored, err := repo.GetWaypoint(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Big Ben", stored.Address)

	byPos := postJSON(t, srv.URL+"/waypoints", map[string]any{"address": "pin", "lat": 10.0, "lon": 20.0, "status": "done"})
	require.Equal(t, http.StatusCreated, byPos.StatusCode)

	unknown := postJSON(t, srv.URL+"/waypoints", map[string]any{"address": "Atlantis"})
	assert.Equal(t, http.StatusUnprocessableEntity, unknown.StatusCode)

	halfPos := postJSON(t, srv.URL+"/waypoints", map[string]any{"lat": 1.0})
	assert.Equal(t, http.StatusBadRequest, halfPos.StatusCode)

	badStatus := postJSON(t, srv.URL+"/waypoints", map[string]any{"address": "Big Ben", "status": "maybe"})
	assert.Equal(t, http.StatusBadRequest, badStatus.StatusCode)

	extra := postJSON(t, srv.URL+"/waypoints", map[string]any{"address": "Big Ben", "colour": "red"})
	assert.Equal(t, http.StatusBadRequest, extra.StatusCode)
}

func TestDeleteAndToggleWaypoint(t *testing.T) {
	srv, repo := newTestServer(t)

	toggle := postJSON(t, srv.URL+"/waypoints/tower/toggle", nil)
	require.Equal(t, http.StatusOK, toggle.StatusCode)
	var updated dto.WaypointResponse
	require.NoError(t, json.NewDecoder(toggle.Body).Decode(&updated))
	assert.Equal(t, "done", updated.Status)

	missing := postJSON(t, srv.URL+"/waypoints/nope/toggle", nil)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/waypoints/abbey", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, err = repo.GetWaypoint(context.Background(), "abbey")
	assert.ErrorIs(t, err, domain.ErrWaypointNotFound)
}

func TestToggleNear(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/waypoints/toggle-near", map[string]any{"lat": 51.5080, "lon": -0.0760})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.ListWaypointsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Waypoints, 1)
	assert.Equal(t, "tower", body.Waypoints[0].ID)
	assert.Equal(t, "done", body.Waypoints[0].Status)

	noPoint := postJSON(t, srv.URL+"/waypoints/toggle-near", map[string]any{"radius_meters": 5})
	assert.Equal(t, http.StatusBadRequest, noPoint.StatusCode)
}

func TestPlanRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/routes", map[string]any{"current_address": "221B Baker Street"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.RouteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "exact", body.Strategy)
	require.Len(t, body.Stops, 4)
	assert.Equal(t, services.CurrentLocationID, body.Stops[0].ID)
	assert.Equal(t, "221B Baker Street", body.Stops[0].Address)

	sum := 0.0
	for _, s := range body.Stops {
		sum += s.LegDistanceMeters
	}
	assert.InDelta(t, body.TotalDistanceMeters, sum, 1e-6)
}

func TestPlanRoutePendingOnlyWithPosition(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/routes", map[string]any{
		"strategy":         "greedy",
		"current_location": map[string]float64{"lat": 51.5, "lon": -0.1},
		"pending_only":     true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.RouteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "greedy", body.Strategy)
	require.Len(t, body.Stops, 3)
	for _, s := range body.Stops {
		assert.NotEqual(t, "museum", s.ID)
	}
}

func TestPlanRouteErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	unresolved := postJSON(t, srv.URL+"/routes", map[string]any{"current_address": "Nowhere at all"})
	assert.Equal(t, http.StatusUnprocessableEntity, unresolved.StatusCode)

	noLocation := postJSON(t, srv.URL+"/routes", map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, noLocation.StatusCode)

	badStrategy := postJSON(t, srv.URL+"/routes", map[string]any{"strategy": "fastest", "current_address": "Big Ben"})
	assert.Equal(t, http.StatusBadRequest, badStrategy.StatusCode)
}

func TestPlanRouteGeoJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/routes?format=geojson", map[string]any{"current_address": "Big Ben"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 5)

	route := fc.Features[0]
	assert.Equal(t, "LineString", route.Geometry.GeoJSONType())
	assert.Equal(t, "route", route.Properties["kind"])

	first := fc.Features[1]
	assert.Equal(t, "Point", first.Geometry.GeoJSONType())
	assert.Equal(t, services.CurrentLocationID, first.ID)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
