package maps

import "context"

// RouteProvider estimates the distance and travel time between two points.
// Booking fare computation is its only consumer.
type RouteProvider interface {
	EstimateRoute(ctx context.Context, request *RouteRequest) (*RouteEstimate, error)
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RouteRequest struct {
	Origin      Location `json:"origin"`
	Destination Location `json:"destination"`
	Mode        string   `json:"mode"` // driving by default
}

type RouteEstimate struct {
	DistanceKM    float64 `json:"distance_km"`
	DurationHours float64 `json:"duration_hours"`
	Summary       string  `json:"summary"`
}
