package tripadvisor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"example.com/tripplanner/log"
	"example.com/tripplanner/tools"
	"github.com/firebase/genkit/go/genkit"
)

const (
	BaseURL = "https://api.content.tripadvisor.com/api/v1"
)

// Client is the place content provider API client. The API key travels as a
// query parameter on every call.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new place provider client and registers its tools
func NewClient(apiKey string, gk *genkit.Genkit, registry *tools.Registry, timeout int) *Client {
	if apiKey == "" {
		log.Warn(context.Background(), "TripAdvisor API key is empty, place tools will not work properly")
	}

	c := &Client{
		APIKey:  apiKey,
		BaseURL: BaseURL,
		HTTPClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}

	c.registerTools(gk, registry)

	return c
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// --- Nearby search ---

type NearbySearchResponse struct {
	Data []NearbyLocation `json:"data"`
}

type NearbyLocation struct {
	LocationID string `json:"location_id"`
	Name       string `json:"name"`
}

// NearbySearch finds locations of one category near a "lat, long" pair
func (c *Client) NearbySearch(ctx context.Context, latLong, category string) (*NearbySearchResponse, error) {
	params := url.Values{}
	params.Set("latLong", latLong)
	params.Set("category", category)

	var result NearbySearchResponse
	if err := c.get(ctx, "/location/nearby_search", params, &result); err != nil {
		log.Errorf(ctx, "NearbySearch(%s): %v", category, err)
		return nil, err
	}

	log.Debugf(ctx, "NearbySearch %s near %s: %d results", category, latLong, len(result.Data))
	return &result, nil
}

// --- Location details ---

// LocationDetails carries the subset of detail fields the tools render.
// Pointers distinguish absent fields from empty ones.
type LocationDetails struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Phone       *string  `json:"phone"`
	Website     *string  `json:"website"`
	Rating      *string  `json:"rating"`
	PriceLevel  *string  `json:"price_level"`
	Features    []string `json:"features"`
	Amenities   []string `json:"amenities"`
}

// GetLocationDetails fetches the detail record for one location id
func (c *Client) GetLocationDetails(ctx context.Context, locationID string) (*LocationDetails, error) {
	var result LocationDetails
	if err := c.get(ctx, "/location/"+locationID+"/details", url.Values{}, &result); err != nil {
		log.Errorf(ctx, "GetLocationDetails(%s): %v", locationID, err)
		return nil, err
	}
	return &result, nil
}

// --- Location reviews ---

type ReviewsResponse struct {
	Data []Review `json:"data"`
}

type Review struct {
	LocationID json.Number `json:"location_id"`
	Rating     int         `json:"rating"`
	Title      string      `json:"title"`
	Text       string      `json:"text"`
}

// GetLocationReviews fetches reviews for one location id
func (c *Client) GetLocationReviews(ctx context.Context, locationID string) (*ReviewsResponse, error) {
	var result ReviewsResponse
	if err := c.get(ctx, "/location/"+locationID+"/reviews", url.Values{}, &result); err != nil {
		log.Errorf(ctx, "GetLocationReviews(%s): %v", locationID, err)
		return nil, err
	}
	return &result, nil
}

// --- Location photos ---

type PhotosResponse struct {
	Data []Photo `json:"data"`
}

type Photo struct {
	ID        json.Number             `json:"id"`
	Caption   string                  `json:"caption"`
	IsBlessed bool                    `json:"is_blessed"`
	Images    map[string]PhotoVariant `json:"images"`
}

type PhotoVariant struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// GetLocationPhotos fetches photos for one location id
func (c *Client) GetLocationPhotos(ctx context.Context, locationID string) (*PhotosResponse, error) {
	var result PhotosResponse
	if err := c.get(ctx, "/location/"+locationID+"/photos", url.Values{}, &result); err != nil {
		log.Errorf(ctx, "GetLocationPhotos(%s): %v", locationID, err)
		return nil, err
	}
	return &result, nil
}
