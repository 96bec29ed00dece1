package booking

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"example.com/tripplanner/log"
	"example.com/tripplanner/tools"
	"github.com/firebase/genkit/go/genkit"
)

// Sentinel strings returned to the reasoning model. These are part of the
// tool contract and must stay textually stable.
const (
	NoFlightsMessage      = "Couldn't find flights. Please try again."
	IncorrectInputMessage = "Incorrect input provided"
)

// nullMarker stands in for absent provider fields so the model can report
// "unknown" instead of silently dropping a field.
const nullMarker = "null"

// --- Airport lookup ---

// AirportTool resolves free-text city or airport names to airport IDs
type AirportTool struct {
	client *Client
}

func (t *AirportTool) Name() string {
	return "airportIdTool"
}

func (t *AirportTool) Description() string {
	return "Looks up the airport ID for a city or airport name. Returns one 'Airport ID: <id>' line per matching airport."
}

func (t *AirportTool) InputSpec() string {
	return "A city or airport name, e.g. \"New York\"."
}

func (t *AirportTool) Invoke(ctx context.Context, input string) (string, error) {
	query := strings.TrimSpace(input)
	if query == "" {
		return "", fmt.Errorf("airport name is required")
	}

	resp, err := t.client.SearchDestination(ctx, query)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, d := range resp.Data {
		if d.Type == "AIRPORT" {
			fmt.Fprintf(&b, "Airport ID: %s\n", d.ID)
		}
	}
	// No matches renders as an empty string; the model treats that as "none found"
	return b.String(), nil
}

// --- Flight offer search ---

// FlightSearchTool finds flight offers between two airports
type FlightSearchTool struct {
	client *Client
}

func (t *FlightSearchTool) Name() string {
	return "flightSearchTool"
}

func (t *FlightSearchTool) Description() string {
	return "Searches for flights between two airports and returns one 'Type: <key>, Token: <offerToken>' line per offer. Use the token with flightDetailsTool."
}

func (t *FlightSearchTool) InputSpec() string {
	return "DepartureAirportID:ArrivalAirportID:DepartureDate:ReturnDate:NumAdults. Dates in YYYY-MM-DD format; leave ReturnDate empty for a one-way trip (e.g. \"JFK.AIRPORT:MEX.AIRPORT:2024-05-01::1\")."
}

// parseFlightQuery splits the composite colon-delimited argument into a
// typed query. The arity is fixed: exactly five fields, even if some are
// empty. An empty return date means a one-way trip and is valid.
func parseFlightQuery(input string) (FlightQuery, error) {
	parts := strings.Split(input, ":")
	if len(parts) != 5 {
		return FlightQuery{}, fmt.Errorf("expected 5 colon-separated fields (origin:destination:departDate:returnDate:adults), got %d", len(parts))
	}

	adults, err := strconv.Atoi(strings.TrimSpace(parts[4]))
	if err != nil {
		return FlightQuery{}, fmt.Errorf("number of adults must be an integer: %w", err)
	}

	q := FlightQuery{
		FromID:     strings.TrimSpace(parts[0]),
		ToID:       strings.TrimSpace(parts[1]),
		DepartDate: strings.TrimSpace(parts[2]),
		ReturnDate: strings.TrimSpace(parts[3]),
		Adults:     adults,
	}
	if q.FromID == "" || q.ToID == "" || q.DepartDate == "" {
		return FlightQuery{}, fmt.Errorf("origin, destination, and departure date are required")
	}
	return q, nil
}

func (t *FlightSearchTool) Invoke(ctx context.Context, input string) (string, error) {
	q, err := parseFlightQuery(input)
	if err != nil {
		return "", err
	}

	resp, err := t.client.SearchFlights(ctx, q)
	if err != nil {
		return "", err
	}

	if !resp.Status {
		return IncorrectInputMessage, nil
	}

	var b strings.Builder
	for _, deal := range resp.Data.FlightDeals {
		fmt.Fprintf(&b, "Type: %s, Token: %s\n", deal.Key, deal.OfferToken)
	}
	if b.Len() == 0 {
		return NoFlightsMessage, nil
	}
	return b.String(), nil
}

// --- Flight details ---

// FlightDetailsTool renders the full itinerary for a flight offer token
type FlightDetailsTool struct {
	client *Client
}

func (t *FlightDetailsTool) Name() string {
	return "flightDetailsTool"
}

func (t *FlightDetailsTool) Description() string {
	return "Returns the price and per-leg itinerary (times, airports, cities, cabin class, terminals) for a flight offer token from flightSearchTool."
}

func (t *FlightDetailsTool) InputSpec() string {
	return "An offer token string exactly as returned by flightSearchTool."
}

func (t *FlightDetailsTool) Invoke(ctx context.Context, input string) (string, error) {
	token := strings.TrimSpace(input)
	if token == "" {
		return "", fmt.Errorf("flight token is required")
	}

	resp, err := t.client.GetFlightDetails(ctx, token)
	if err != nil {
		return "", err
	}

	// The status flag must hold before the data can be trusted; a rejected
	// token surfaces as an error rather than an empty itinerary.
	if !resp.Status {
		return "", fmt.Errorf("flight details lookup failed for the given token")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Trip Price: $%d\n", resp.Data.PriceBreakdown.Total.Units)
	for _, segment := range resp.Data.Segments {
		fmt.Fprintf(&b, "\nFrom %s to %s:", segment.DepartureAirport.CityName, segment.ArrivalAirport.CityName)
		for _, leg := range segment.Legs {
			fmt.Fprintf(&b, `
    Departure Time: %s,
    Arrival Time: %s,
    Departure Airport: %s,
    Departure City: %s,
    Arrival Airport: %s,
    Arrival City: %s,
    Cabin Class: %s,
    Departure Terminal: %s,
    Arrival Terminal: %s
`,
				leg.DepartureTime,
				leg.ArrivalTime,
				leg.DepartureAirport.Name,
				leg.DepartureAirport.CityName,
				leg.ArrivalAirport.Name,
				leg.ArrivalAirport.CityName,
				leg.CabinClass,
				orNull(leg.DepartureTerminal),
				orNull(leg.ArrivalTerminal),
			)
		}
	}
	return b.String(), nil
}

func orNull(s *string) string {
	if s == nil {
		return nullMarker
	}
	return *s
}

// registerTools registers all flight tools with the registry
func (c *Client) registerTools(gk *genkit.Genkit, registry *tools.Registry) {
	if registry == nil {
		log.Warn(context.Background(), "[Flights] Cannot register tools: registry is nil")
		return
	}

	for _, t := range []tools.Tool{
		&AirportTool{client: c},
		&FlightSearchTool{client: c},
		&FlightDetailsTool{client: c},
	} {
		registry.Register(gk, t)
		log.Infof(context.Background(), "[Flights] Registered tool: %s", t.Name())
	}
}
