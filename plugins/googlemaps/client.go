package googlemaps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// Geocoder resolves free-text addresses to coordinates. Satisfied by the
// Google Maps client; tests substitute a fake.
type Geocoder interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// Client handles Google Maps API requests
type Client struct {
	APIKey     string
	MapsClient Geocoder
}

// NewClient creates a new Google Maps API client
// Returns an error if the client cannot be initialized
func NewClient(apiKey string) (*Client, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}

	return &Client{
		APIKey:     apiKey,
		MapsClient: c,
	}, nil
}

// GetCoordinates geocodes a free-text address
func (c *Client) GetCoordinates(ctx context.Context, address string) ([]maps.GeocodingResult, error) {
	if address == "" {
		return nil, fmt.Errorf("address is required")
	}

	results, err := c.MapsClient.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}

	return results, nil
}
