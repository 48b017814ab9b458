package dto

type WaypointResponse struct {
	ID      string  `json:"id"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Status  string  `json:"status"`
}

type ListWaypointsResponse struct {
	Waypoints []WaypointResponse `json:"waypoints"`
}

// CreateWaypointRequest adds a marker. When Lat and Lon are both set the
// address is stored as a label and not geocoded.
type CreateWaypointRequest struct {
	Address string   `json:"address"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	Status  string   `json:"status"`
}

type ToggleNearRequest struct {
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
	RadiusMeters float64  `json:"radius_meters"`
}
