package handlers

import (
	"marker-route-service/internal/api/dto"
	"marker-route-service/internal/domain"
	"marker-route-service/internal/services"
	"net/http"
	"strings"
)

// WaypointHandler exposes the marker store: listing, adding, deleting and
// toggling waypoints.
type WaypointHandler struct {
	Markers *services.MarkerService
	// ToggleRadiusMeters applies when a toggle-near request gives no radius.
	ToggleRadiusMeters float64
}

func (h *WaypointHandler) List(w http.ResponseWriter, r *http.Request) {
	ws, err := h.Markers.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list waypoints", err)
		return
	}

	res := dto.ListWaypointsResponse{Waypoints: toWaypointResponses(ws)}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *WaypointHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWaypointRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if (req.Lat == nil) != (req.Lon == nil) {
		writeError(w, r, http.StatusBadRequest, "lat and lon must be given together")
		return
	}

	var created domain.Waypoint
	if req.Lat != nil {
		created, err = h.Markers.AddAt(r.Context(), req.Address, domain.GeoPoint{Lat: *req.Lat, Lon: *req.Lon}, status)
	} else {
		if strings.TrimSpace(req.Address) == "" {
			writeError(w, r, http.StatusBadRequest, "address or lat/lon is required")
			return
		}
		created, err = h.Markers.AddByAddress(r.Context(), req.Address, status)
	}
	if err != nil {
		writeServiceError(w, r, "create waypoint", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toWaypointResponse(created))
}

func (h *WaypointHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Markers.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete waypoint", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WaypointHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	updated, err := h.Markers.Toggle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "toggle waypoint", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toWaypointResponse(updated))
}

// ToggleNear flips every waypoint within the radius of a clicked map point.
func (h *WaypointHandler) ToggleNear(w http.ResponseWriter, r *http.Request) {
	var req dto.ToggleNearRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Lat == nil || req.Lon == nil {
		writeError(w, r, http.StatusBadRequest, "lat and lon are required")
		return
	}
	if req.RadiusMeters < 0 {
		writeError(w, r, http.StatusBadRequest, "radius_meters must be positive")
		return
	}

	radius := req.RadiusMeters
	if radius == 0 {
		radius = h.ToggleRadiusMeters
	}

	toggled, err := h.Markers.ToggleNear(r.Context(), domain.GeoPoint{Lat: *req.Lat, Lon: *req.Lon}, radius)
	if err != nil {
		writeServiceError(w, r, "toggle near", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListWaypointsResponse{Waypoints: toWaypointResponses(toggled)})
}

func toWaypointResponse(w domain.Waypoint) dto.WaypointResponse {
	return dto.WaypointResponse{
		ID:      w.ID,
		Address: w.Address,
		Lat:     w.Location.Lat,
		Lon:     w.Location.Lon,
		Status:  string(w.Status),
	}
}

func toWaypointResponses(ws []domain.Waypoint) []dto.WaypointResponse {
	out := make([]dto.WaypointResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, toWaypointResponse(w))
	}
	return out
}
