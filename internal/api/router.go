package api

import (
	"marker-route-service/internal/api/handlers"
	"marker-route-service/internal/platform/metrics"
	"marker-route-service/internal/ports"
	"marker-route-service/internal/services"
	"net/http"
	"time"
)

// Deps carries what the handlers need. Concrete adapters are chosen in cmd/server.
type Deps struct {
	Repo     ports.WaypointRepository
	Resolver ports.PositionResolver
	Planner  *services.RoutePlanner

	DefaultStrategy    services.Strategy
	ResolveTimeout     time.Duration
	ToggleRadiusMeters float64
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	wpHandler := &handlers.WaypointHandler{
		Markers:            services.NewMarkerService(d.Repo, d.Resolver),
		ToggleRadiusMeters: d.ToggleRadiusMeters,
	}
	routeHandler := &handlers.RouteHandler{
		Repo:            d.Repo,
		Resolver:        d.Resolver,
		Planner:         d.Planner,
		DefaultStrategy: d.DefaultStrategy,
		ResolveTimeout:  d.ResolveTimeout,
	}

	mux.Handle("/health", &handlers.HealthHandler{Repo: d.Repo})
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /waypoints", wpHandler.List)
	mux.HandleFunc("POST /waypoints", wpHandler.Create)
	mux.HandleFunc("DELETE /waypoints/{id}", wpHandler.Delete)
	mux.HandleFunc("POST /waypoints/{id}/toggle", wpHandler.Toggle)
	mux.HandleFunc("POST /waypoints/toggle-near", wpHandler.ToggleNear)

	mux.HandleFunc("POST /routes", routeHandler.Plan)

	return requestIDMiddleware(loggingMiddleware(mux))
}
