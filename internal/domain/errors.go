package domain

import "errors"

var (
	// ErrEmptyInput is returned when planning is requested with zero waypoints.
	ErrEmptyInput = errors.New("route: empty waypoint set")

	// ErrStartNotFound is returned when the start position matches no waypoint.
	ErrStartNotFound = errors.New("route: start position is not among the waypoints")

	// ErrTooManyWaypoints is returned when exhaustive search is requested above the configured cap.
	ErrTooManyWaypoints = errors.New("route: too many waypoints for exact search")

	// ErrResolutionFailed wraps any failure to determine the current location.
	ErrResolutionFailed = errors.New("could not determine current location")

	ErrWaypointNotFound = errors.New("waypoint not found")
	ErrInvalidLocation  = errors.New("invalid location")
)
