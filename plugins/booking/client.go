package booking

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
	BaseURL = "https://booking-com15.p.rapidapi.com"
)

// Client is the flight provider API client. Every request carries the API
// key and host identifier as headers.
type Client struct {
	APIKey     string
	Host       string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new flight provider client and registers its tools
func NewClient(apiKey, host string, gk *genkit.Genkit, registry *tools.Registry, timeout int) *Client {
	if apiKey == "" {
		log.Warn(context.Background(), "Flight API key is empty, flight tools will not work properly")
	}

	c := &Client{
		APIKey:  apiKey,
		Host:    host,
		BaseURL: BaseURL,
		HTTPClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}

	c.registerTools(gk, registry)

	return c
}

// get performs an authenticated GET request and decodes the JSON response
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-RapidAPI-Key", c.APIKey)
	req.Header.Set("X-RapidAPI-Host", c.Host)

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

// --- Destination search ---

type DestinationSearchResponse struct {
	Data []Destination `json:"data"`
}

type Destination struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// SearchDestination looks up airports and cities matching a free-text query
func (c *Client) SearchDestination(ctx context.Context, query string) (*DestinationSearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)

	var result DestinationSearchResponse
	if err := c.get(ctx, "/api/v1/flights/searchDestination", params, &result); err != nil {
		log.Errorf(ctx, "SearchDestination: %v", err)
		return nil, err
	}

	log.Debugf(ctx, "SearchDestination %q: %d results", query, len(result.Data))
	return &result, nil
}

// --- Flight offer search ---

// FlightQuery is a typed flight-offer search request. ReturnDate may be
// empty for a one-way trip.
type FlightQuery struct {
	FromID     string
	ToID       string
	DepartDate string
	ReturnDate string
	Adults     int
}

type FlightSearchResponse struct {
	// Status is false when the provider rejected the request; Data must not
	// be trusted unless it is true.
	Status bool        `json:"status"`
	Data   FlightDeals `json:"data"`
}

type FlightDeals struct {
	FlightDeals []FlightDeal `json:"flightDeals"`
}

type FlightDeal struct {
	Key        string `json:"key"`
	OfferToken string `json:"offerToken"`
}

// SearchFlights searches for flight offers between two airports
func (c *Client) SearchFlights(ctx context.Context, q FlightQuery) (*FlightSearchResponse, error) {
	params := url.Values{}
	params.Set("fromId", q.FromID)
	params.Set("toId", q.ToID)
	params.Set("departDate", q.DepartDate)
	if q.ReturnDate != "" {
		params.Set("returnDate", q.ReturnDate)
	}
	params.Set("pageNo", "1")
	params.Set("adults", fmt.Sprintf("%d", q.Adults))
	params.Set("currency_code", "USD")

	var result FlightSearchResponse
	if err := c.get(ctx, "/api/v1/flights/searchFlights", params, &result); err != nil {
		log.Errorf(ctx, "SearchFlights: %v", err)
		return nil, err
	}

	log.Debugf(ctx, "SearchFlights %s->%s: status=%t deals=%d", q.FromID, q.ToID, result.Status, len(result.Data.FlightDeals))
	return &result, nil
}

// --- Flight details ---

type FlightDetailsResponse struct {
	Status bool          `json:"status"`
	Data   FlightDetails `json:"data"`
}

type FlightDetails struct {
	PriceBreakdown PriceBreakdown `json:"priceBreakdown"`
	Segments       []Segment      `json:"segments"`
}

type PriceBreakdown struct {
	Total Money `json:"total"`
}

type Money struct {
	Units    int64  `json:"units"`
	Nanos    int64  `json:"nanos"`
	Currency string `json:"currencyCode"`
}

type Segment struct {
	DepartureAirport Airport `json:"departureAirport"`
	ArrivalAirport   Airport `json:"arrivalAirport"`
	Legs             []Leg   `json:"legs"`
}

type Airport struct {
	Name     string `json:"name"`
	CityName string `json:"cityName"`
}

type Leg struct {
	DepartureTime    string  `json:"departureTime"`
	ArrivalTime      string  `json:"arrivalTime"`
	DepartureAirport Airport `json:"departureAirport"`
	ArrivalAirport   Airport `json:"arrivalAirport"`
	CabinClass       string  `json:"cabinClass"`
	// Terminals are frequently absent from provider responses
	DepartureTerminal *string `json:"departureTerminal"`
	ArrivalTerminal   *string `json:"arrivalTerminal"`
}

// GetFlightDetails fetches the full itinerary for a flight offer token
func (c *Client) GetFlightDetails(ctx context.Context, token string) (*FlightDetailsResponse, error) {
	params := url.Values{}
	params.Set("token", token)
	params.Set("currency_code", "USD")

	var result FlightDetailsResponse
	if err := c.get(ctx, "/api/v1/flights/getFlightDetails", params, &result); err != nil {
		log.Errorf(ctx, "GetFlightDetails: %v", err)
		return nil, err
	}

	return &result, nil
}
