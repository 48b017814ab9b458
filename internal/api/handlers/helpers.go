package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"marker-route-service/internal/domain"
	"marker-route-service/internal/platform/obs"
	"net/http"

	"github.com/sirupsen/logrus"
)

// maxBodyBytes caps request bodies; every request here is a small JSON object.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.Logger().WithFields(logrus.Fields{
			"req_id": obs.RequestID(r.Context()),
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object with no unknown fields.
// An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeServiceError maps domain failures onto HTTP statuses.
// Unexpected errors are logged and reported as 500 without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrWaypointNotFound):
		writeError(w, r, http.StatusNotFound, "waypoint not found")
	case errors.Is(err, domain.ErrInvalidLocation):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrResolutionFailed):
		writeError(w, r, http.StatusUnprocessableEntity, domain.ErrResolutionFailed.Error())
	case errors.Is(err, domain.ErrEmptyInput),
		errors.Is(err, domain.ErrTooManyWaypoints),
		errors.Is(err, domain.ErrStartNotFound):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		obs.Logger().WithField("req_id", obs.RequestID(r.Context())).WithError(err).Error(op + " failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
