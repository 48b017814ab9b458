package handlers

import (
	"marker-route-service/internal/api/dto"
	"marker-route-service/internal/domain"
	"marker-route-service/internal/ports"
	"marker-route-service/internal/services"
	"net/http"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type RouteHandler struct {
	Repo            ports.WaypointRepository
	Resolver        ports.PositionResolver
	Planner         *services.RoutePlanner
	DefaultStrategy services.Strategy
	ResolveTimeout  time.Duration
}

// Plan resolves the caller's current location and returns a visiting order
// over the stored waypoints. ?format=geojson renders the route as a
// FeatureCollection for map display.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	strategy := h.DefaultStrategy
	if req.Strategy != "" {
		s, err := services.ParseStrategy(req.Strategy)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		strategy = s
	}

	loc := services.LocationQuery{Address: req.CurrentAddress}
	if req.CurrentLocation != nil {
		loc.Position = &domain.GeoPoint{Lat: req.CurrentLocation.Lat, Lon: req.CurrentLocation.Lon}
	}

	res, err := services.PlanTrip(r.Context(), services.PlanTripRequest{
		Strategy:       strategy,
		Location:       loc,
		PendingOnly:    req.PendingOnly,
		ResolveTimeout: h.ResolveTimeout,
	}, h.Repo, h.Resolver, h.Planner)
	if err != nil {
		writeServiceError(w, r, "plan route", err)
		return
	}

	if r.URL.Query().Get("format") == "geojson" {
		writeJSON(w, r, http.StatusOK, routeFeatureCollection(res))
		return
	}

	writeJSON(w, r, http.StatusOK, toRouteResponse(res))
}

func toRouteResponse(res *domain.RouteResult) dto.RouteResponse {
	out := dto.RouteResponse{
		Strategy:            res.Strategy,
		TotalDistanceMeters: res.TotalDistanceMeters,
		Stops:               make([]dto.RouteStopResponse, 0, len(res.Stops)),
	}
	for i, s := range res.Stops {
		out.Stops = append(out.Stops, dto.RouteStopResponse{
			Order:             i,
			ID:                s.ID,
			Address:           s.Address,
			Lat:               s.Location.Lat,
			Lon:               s.Location.Lon,
			Status:            string(s.Status),
			LegDistanceMeters: res.LegDistancesMeters[i],
		})
	}
	return out
}

// routeFeatureCollection renders the closed tour as one LineString followed
// by a Point feature per stop.
func routeFeatureCollection(res *domain.RouteResult) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	line := make(orb.LineString, 0, len(res.Stops)+1)
	for _, s := range res.Stops {
		line = append(line, s.Location.OrbPoint())
	}
	if len(res.Stops) > 1 {
		line = append(line, res.Stops[0].Location.OrbPoint())
	}

	route := geojson.NewFeature(line)
	route.Properties["kind"] = "route"
	route.Properties["strategy"] = res.Strategy
	route.Properties["total_distance_meters"] = res.TotalDistanceMeters
	fc.Append(route)

	for i, s := range res.Stops {
		f := geojson.NewFeature(s.Location.OrbPoint())
		f.ID = s.ID
		f.Properties["kind"] = "stop"
		f.Properties["order"] = i
		f.Properties["address"] = s.Address
		f.Properties["status"] = string(s.Status)
		f.Properties["leg_distance_meters"] = res.LegDistancesMeters[i]
		fc.Append(f)
	}

	return fc
}
