package dto

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type RouteRequest struct {
	Strategy        string  `json:"strategy"`
	CurrentAddress  string  `json:"current_address"`
	CurrentLocation *LatLon `json:"current_location"`
	PendingOnly     bool    `json:"pending_only"`
}

type RouteStopResponse struct {
	Order   int     `json:"order"`
	ID      string  `json:"id"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Status  string  `json:"status"`
	// LegDistanceMeters runs to the next stop; the last leg returns to the first.
	LegDistanceMeters float64 `json:"leg_distance_meters"`
}

type RouteResponse struct {
	Strategy            string              `json:"strategy"`
	TotalDistanceMeters float64             `json:"total_distance_meters"`
	Stops               []RouteStopResponse `json:"stops"`
}
