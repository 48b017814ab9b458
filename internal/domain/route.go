package domain

// Represents the planned visiting order for a set of waypoints.
// A RouteResult is the output of a route planner: Stops is a permutation of
// the planner input and TotalDistanceMeters is the closed-tour length
// (every leg plus the leg from the last stop back to the first).
// It is immutable planning data and is never persisted.
type RouteResult struct {
	Strategy            string
	Stops               []Waypoint
	LegDistancesMeters  []float64
	TotalDistanceMeters float64
}

// IDs returns the stop identities in route order.
func (r *RouteResult) IDs() []string {
	ids := make([]string, 0, len(r.Stops))
	for _, s := range r.Stops {
		ids = append(ids, s.ID)
	}
	return ids
}
