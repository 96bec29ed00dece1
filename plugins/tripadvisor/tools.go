package tripadvisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"example.com/tripplanner/log"
	"example.com/tripplanner/tools"
	"github.com/firebase/genkit/go/genkit"
)

// NotFoundMessage is the sentinel returned when the provider has no
// matching records. It deliberately does not distinguish "nothing matched"
// from "request was malformed"; the provider does not either.
const NotFoundMessage = "Could not find the information requested"

const nullMarker = "null"

// parseLatLong validates a "lat, long" argument and returns it normalized
func parseLatLong(input string) (string, error) {
	parts := strings.Split(input, ",")
	if len(parts) != 2 {
		return "", fmt.Errorf("expected \"latitude, longitude\", got %q", input)
	}
	lat := strings.TrimSpace(parts[0])
	long := strings.TrimSpace(parts[1])
	if _, err := strconv.ParseFloat(lat, 64); err != nil {
		return "", fmt.Errorf("latitude %q is not a number", lat)
	}
	if _, err := strconv.ParseFloat(long, 64); err != nil {
		return "", fmt.Errorf("longitude %q is not a number", long)
	}
	return lat + ", " + long, nil
}

// parseLocationID validates a numeric location id argument
func parseLocationID(input string) (string, error) {
	id := strings.TrimSpace(input)
	if id == "" {
		return "", fmt.Errorf("location id is required")
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("location id must be numeric, got %q", id)
		}
	}
	return id, nil
}

// --- Nearby search (one tool instance per category) ---

// NearbyTool finds locations of one category near a coordinate pair
type NearbyTool struct {
	client   *Client
	name     string
	category string
}

func (t *NearbyTool) Name() string {
	return t.name
}

func (t *NearbyTool) Description() string {
	return fmt.Sprintf("Finds %s close to a given latitude and longitude pair. Returns one 'Location ID: <id>, Name: <name>' line per match.", t.category)
}

func (t *NearbyTool) InputSpec() string {
	return "A pair of floats that looks like this: 51.5074, -0.1278. Do not add any other text."
}

func (t *NearbyTool) Invoke(ctx context.Context, input string) (string, error) {
	latLong, err := parseLatLong(input)
	if err != nil {
		return "", err
	}

	resp, err := t.client.NearbySearch(ctx, latLong, t.category)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, loc := range resp.Data {
		fmt.Fprintf(&b, "Location ID: %s, Name: %s\n", loc.LocationID, loc.Name)
	}
	if b.Len() == 0 {
		return NotFoundMessage, nil
	}
	return b.String(), nil
}

// --- Location details ---

// DetailsTool renders the fixed-field information block for one location
type DetailsTool struct {
	client *Client
}

func (t *DetailsTool) Name() string {
	return "locationDetailsTool"
}

func (t *DetailsTool) Description() string {
	return "Returns information about a location: name, description, phone, website, rating, price level, features, and amenities. Unknown fields read 'null'."
}

func (t *DetailsTool) InputSpec() string {
	return "A numeric location id from a nearby search, without extra information."
}

func (t *DetailsTool) Invoke(ctx context.Context, input string) (string, error) {
	id, err := parseLocationID(input)
	if err != nil {
		return "", err
	}

	details, err := t.client.GetLocationDetails(ctx, id)
	if err != nil {
		return "", err
	}

	// Every field renders, absent ones as the null marker. This block never
	// collapses to the not-found sentinel.
	return fmt.Sprintf(`
Name: %s
Description: %s
Phone: %s
Website: %s
Rating: %s
Price Level: %s
Features: %s
Amenities: %s
`,
		orNull(details.Name),
		orNull(details.Description),
		orNull(details.Phone),
		orNull(details.Website),
		orNull(details.Rating),
		orNull(details.PriceLevel),
		joinOrNull(details.Features),
		joinOrNull(details.Amenities),
	), nil
}

func orNull(s *string) string {
	if s == nil {
		return nullMarker
	}
	return *s
}

func joinOrNull(items []string) string {
	if items == nil {
		return nullMarker
	}
	return strings.Join(items, ", ")
}

// --- Location reviews ---

// ReviewsTool lists reviews for one location
type ReviewsTool struct {
	client *Client
}

func (t *ReviewsTool) Name() string {
	return "locationReviewsTool"
}

func (t *ReviewsTool) Description() string {
	return "Returns reviews for one location. Each line reads 'Location ID: <id>, Rating: <r>, Title: <t>, Review: <text>'."
}

func (t *ReviewsTool) InputSpec() string {
	return "A numeric location id from a nearby search, without extra information."
}

func (t *ReviewsTool) Invoke(ctx context.Context, input string) (string, error) {
	id, err := parseLocationID(input)
	if err != nil {
		return "", err
	}

	resp, err := t.client.GetLocationReviews(ctx, id)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, review := range resp.Data {
		fmt.Fprintf(&b, "Location ID: %s, Rating: %d, Title: %s, Review: %s\n",
			review.LocationID, review.Rating, review.Title, review.Text)
	}
	if b.Len() == 0 {
		return NotFoundMessage, nil
	}
	return b.String(), nil
}

// --- Location photos ---

// PhotosTool lists photos for one location
type PhotosTool struct {
	client *Client
}

func (t *PhotosTool) Name() string {
	return "locationPhotosTool"
}

func (t *PhotosTool) Description() string {
	return "Returns photos for one location. Each line reads 'Location ID: <id>, Image: <images>, Caption: <caption>, Blessed: <flag>'."
}

func (t *PhotosTool) InputSpec() string {
	return "A numeric location id from a nearby search, without extra information."
}

func (t *PhotosTool) Invoke(ctx context.Context, input string) (string, error) {
	id, err := parseLocationID(input)
	if err != nil {
		return "", err
	}

	resp, err := t.client.GetLocationPhotos(ctx, id)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, photo := range resp.Data {
		// Map keys marshal in sorted order, so the rendering is stable
		images, err := json.Marshal(photo.Images)
		if err != nil {
			return "", fmt.Errorf("failed to render photo images: %w", err)
		}
		fmt.Fprintf(&b, "Location ID: %s, Image: %s, Caption: %s, Blessed: %t\n",
			photo.ID, images, photo.Caption, photo.IsBlessed)
	}
	if b.Len() == 0 {
		return NotFoundMessage, nil
	}
	return b.String(), nil
}

// registerTools registers all place tools with the registry
func (c *Client) registerTools(gk *genkit.Genkit, registry *tools.Registry) {
	if registry == nil {
		log.Warn(context.Background(), "[TripAdvisor] Cannot register tools: registry is nil")
		return
	}

	for _, t := range []tools.Tool{
		&NearbyTool{client: c, name: "nearbyAttractionsTool", category: "attractions"},
		&NearbyTool{client: c, name: "nearbyHotelsTool", category: "hotels"},
		&NearbyTool{client: c, name: "nearbyRestaurantsTool", category: "restaurants"},
		&DetailsTool{client: c},
		&ReviewsTool{client: c},
		&PhotosTool{client: c},
	} {
		registry.Register(gk, t)
		log.Infof(context.Background(), "[TripAdvisor] Registered tool: %s", t.Name())
	}
}
