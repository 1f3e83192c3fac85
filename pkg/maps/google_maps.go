package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

type GoogleMapsProvider struct {
	client *maps.Client
}

func NewGoogleMapsProvider(apiKey string) (*GoogleMapsProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return &GoogleMapsProvider{
		client: client,
	}, nil
}

func (g *GoogleMapsProvider) EstimateRoute(ctx context.Context, request *RouteRequest) (*RouteEstimate, error) {
	mode := request.Mode
	if mode == "" {
		mode = "driving"
	}

	req := &maps.DistanceMatrixRequest{
		Origins:      []string{fmt.Sprintf("%f,%f", request.Origin.Latitude, request.Origin.Longitude)},
		Destinations: []string{fmt.Sprintf("%f,%f", request.Destination.Latitude, request.Destination.Longitude)},
		Mode:         maps.Mode(mode),
		Units:        maps.UnitsMetric,
	}

	resp, err := g.client.DistanceMatrix(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("distance matrix request failed: %w", err)
	}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return nil, fmt.Errorf("distance matrix returned no elements")
	}

	element := resp.Rows[0].Elements[0]
	if element.Status != "OK" {
		return nil, fmt.Errorf("distance matrix element status: %s", element.Status)
	}

	return &RouteEstimate{
		DistanceKM:    float64(element.Distance.Meters) / 1000,
		DurationHours: element.Duration.Hours(),
	}, nil
}
