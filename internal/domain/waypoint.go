package domain

import (
	"fmt"
	"strings"
)

// Status of a waypoint. Transitions are caller-driven only.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusDone {
		return StatusPending
	}
	return StatusDone
}

// ParseStatus accepts "pending", "done" and the legacy "not done" label.
// An empty string means pending.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pending", "not done":
		return StatusPending, nil
	case "done":
		return StatusDone, nil
	default:
		return "", fmt.Errorf("parse status: unknown status %q", s)
	}
}

// Represents a stop to visit: an address marker placed on the map.
// ID is an opaque identity, so two waypoints may share a Location.
// Planners only read Location; Status belongs to the host.
type Waypoint struct {
	ID       string
	Address  string
	Location GeoPoint
	Status   Status
}
