package googlemaps

import (
	"context"
	"fmt"
	"strings"

	"example.com/tripplanner/log"
	"example.com/tripplanner/tools"
	"github.com/firebase/genkit/go/genkit"
)

// GeocodeTool turns a place name into the "lat, long" pair the nearby place
// tools expect as input.
type GeocodeTool struct {
	client *Client
}

func (t *GeocodeTool) Name() string {
	return "geocodeTool"
}

func (t *GeocodeTool) Description() string {
	return "Converts a place name or address into coordinates. Returns a 'lat, long' pair suitable as input for the nearby search tools."
}

func (t *GeocodeTool) InputSpec() string {
	return "A place name or address, e.g. \"Seattle\" or \"Pike Place Market\"."
}

func (t *GeocodeTool) Invoke(ctx context.Context, input string) (string, error) {
	address := strings.TrimSpace(input)
	if address == "" {
		return "", fmt.Errorf("place name is required")
	}

	results, err := t.client.GetCoordinates(ctx, address)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "Could not find the information requested", nil
	}

	loc := results[0].Geometry.Location
	return fmt.Sprintf("%.4f, %.4f", loc.Lat, loc.Lng), nil
}

// RegisterTools registers the geocode tool with the registry
func (c *Client) RegisterTools(gk *genkit.Genkit, registry *tools.Registry) {
	if registry == nil {
		log.Warn(context.Background(), "[Maps] Cannot register tools: registry is nil")
		return
	}

	t := &GeocodeTool{client: c}
	registry.Register(gk, t)
	log.Infof(context.Background(), "[Maps] Registered tool: %s", t.Name())
}
