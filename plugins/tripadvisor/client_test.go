package tripadvisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockPlaceServer mocks the place provider endpoints
func mockPlaceServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/location/nearby_search":
			json.NewEncoder(w).Encode(NearbySearchResponse{
				Data: []NearbyLocation{
					{LocationID: "190454", Name: "The Example Hotel"},
					{LocationID: "190455", Name: "Another Place"},
				},
			})
		case strings.HasSuffix(r.URL.Path, "/details"):
			name := "The Example Hotel"
			rating := "4.5"
			json.NewEncoder(w).Encode(LocationDetails{
				Name:      &name,
				Rating:    &rating,
				Features:  []string{"Free Wifi", "Pool"},
				Amenities: []string{"Bar"},
			})
		case strings.HasSuffix(r.URL.Path, "/reviews"):
			json.NewEncoder(w).Encode(ReviewsResponse{
				Data: []Review{
					{LocationID: "190454", Rating: 5, Title: "Great stay", Text: "Loved it."},
				},
			})
		case strings.HasSuffix(r.URL.Path, "/photos"):
			json.NewEncoder(w).Encode(PhotosResponse{
				Data: []Photo{
					{
						ID:        "12345",
						Caption:   "Lobby",
						IsBlessed: true,
						Images: map[string]PhotoVariant{
							"original": {URL: "https://example.com/lobby.jpg", Width: 1024, Height: 768},
						},
					},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestClient(baseURL string) *Client {
	c := NewClient("test-key", nil, nil, 5)
	c.BaseURL = baseURL
	return c
}

func TestClient_KeyQueryParam(t *testing.T) {
	var gotKey, gotLatLong, gotCategory string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		gotLatLong = r.URL.Query().Get("latLong")
		gotCategory = r.URL.Query().Get("category")
		json.NewEncoder(w).Encode(NearbySearchResponse{})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	_, err := client.NearbySearch(context.Background(), "51.5074, -0.1278", "hotels")
	assert.NoError(t, err)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "51.5074, -0.1278", gotLatLong)
	assert.Equal(t, "hotels", gotCategory)
}

func TestNearbySearch(t *testing.T) {
	ts := mockPlaceServer()
	defer ts.Close()

	client := newTestClient(ts.URL)
	resp, err := client.NearbySearch(context.Background(), "47.6062, -122.3321", "hotels")
	assert.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, "190454", resp.Data[0].LocationID)
}

func TestGetLocationDetails(t *testing.T) {
	ts := mockPlaceServer()
	defer ts.Close()

	client := newTestClient(ts.URL)
	details, err := client.GetLocationDetails(context.Background(), "190454")
	assert.NoError(t, err)
	assert.Equal(t, "The Example Hotel", *details.Name)
	assert.Nil(t, details.Description)
	assert.Equal(t, []string{"Free Wifi", "Pool"}, details.Features)
}

func TestGetLocationReviews(t *testing.T) {
	ts := mockPlaceServer()
	defer ts.Close()

	client := newTestClient(ts.URL)
	resp, err := client.GetLocationReviews(context.Background(), "190454")
	assert.NoError(t, err)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 5, resp.Data[0].Rating)
}

func TestGetLocationPhotos(t *testing.T) {
	ts := mockPlaceServer()
	defer ts.Close()

	client := newTestClient(ts.URL)
	resp, err := client.GetLocationPhotos(context.Background(), "190454")
	assert.NoError(t, err)
	assert.Len(t, resp.Data, 1)
	assert.True(t, resp.Data[0].IsBlessed)
}

func TestClient_Non200Status(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	_, err := client.NearbySearch(context.Background(), "0, 0", "hotels")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
