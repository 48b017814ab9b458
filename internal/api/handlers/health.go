package handlers

import (
	"context"
	"marker-route-service/internal/platform/obs"
	"marker-route-service/internal/ports"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler reports liveness and whether the waypoint store answers.
type HealthHandler struct {
	Repo ports.WaypointRepository
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	ws, err := h.Repo.ListWaypoints(ctx)
	if err != nil {
		obs.Logger().WithFields(logrus.Fields{
			"req_id": obs.RequestID(r.Context()),
		}).WithError(err).Warn("health: waypoint store unavailable")
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "store": "unavailable"})
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"status": "ok", "waypoints": len(ws)})
}
