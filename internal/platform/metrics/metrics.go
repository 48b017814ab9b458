// Package metrics holds the service's prometheus collectors on a dedicated registry.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path"},
	)

	// RoutePlans counts planning calls by strategy and outcome.
	RoutePlans = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_plans_total", Help: "Route planning calls by strategy and outcome."},
		[]string{"strategy", "outcome"},
	)
	// RoutePlanDuration tracks planner running time in seconds.
	RoutePlanDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "route_plan_duration_seconds", Help: "Route planner running time in seconds.", Buckets: []float64{.0001, .001, .01, .05, .1, .25, .5, 1, 2.5, 5}},
		[]string{"strategy"},
	)
	// RouteWaypoints records the waypoint count per planning call.
	RouteWaypoints = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "route_waypoints", Help: "Waypoints per planning call.", Buckets: []float64{1, 2, 4, 6, 8, 10, 15, 25, 50, 100}},
		[]string{"strategy"},
	)

	// GeocodeRequests counts geocoder lookups by provider and outcome (hit, miss, error).
	GeocodeRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "geocode_requests_total", Help: "Geocoder lookups by provider and outcome."},
		[]string{"provider", "outcome"},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(RoutePlans)
		Registry.MustRegister(RoutePlanDuration)
		Registry.MustRegister(RouteWaypoints)
		Registry.MustRegister(GeocodeRequests)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler exposes Registry in the prometheus text format.
func Handler() http.Handler {
	RegisterDefault()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObservePlan records one planning call.
func ObservePlan(strategy string, waypoints int, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	RoutePlans.WithLabelValues(strategy, outcome).Inc()
	RoutePlanDuration.WithLabelValues(strategy).Observe(time.Since(started).Seconds())
	RouteWaypoints.WithLabelValues(strategy).Observe(float64(waypoints))
}
