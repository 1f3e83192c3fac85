package maps

import (
	"context"
	"math"
)

const (
	earthRadiusKM      = 6371.0
	defaultCitySpeedKM = 30.0
)

// HaversineProvider estimates routes as great-circle distance at city
// driving speed. It backs deployments without a Google Maps key and
// serves as the fallback when the Distance Matrix call fails.
type HaversineProvider struct{}

func NewHaversineProvider() *HaversineProvider {
	return &HaversineProvider{}
}

func (p *HaversineProvider) EstimateRoute(_ context.Context, request *RouteRequest) (*RouteEstimate, error) {
	distance := haversine(request.Origin.Latitude, request.Origin.Longitude,
		request.Destination.Latitude, request.Destination.Longitude)

	return &RouteEstimate{
		DistanceKM:    distance,
		DurationHours: distance / defaultCitySpeedKM,
		Summary:       "straight-line estimate",
	}, nil
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}
