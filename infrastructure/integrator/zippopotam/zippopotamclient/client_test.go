package zippopotamclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/nicmap-api/internal/config"
)

func newTestClient(baseURL string) Client {
	return NewClient(&config.Config{
		Zippopotam: config.Zippopotam{
			BaseURL:        baseURL,
			Country:        "us",
			TimeoutSeconds: 5,
		},
	})
}

func TestGetPlaces(t *testing.T) {
	payload := `{
		"post code": "78701",
		"country": "United States",
		"country abbreviation": "US",
		"places": [
			{
				"place name": "Austin",
				"state": "Texas",
				"state abbreviation": "TX",
				"latitude": "30.2713",
				"longitude": "-97.7426"
			}
		]
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/us/78701", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	response, err := client.GetPlaces(context.Background(), "78701")
	require.NoError(t, err)
	require.Len(t, response.Places, 1)

	place := response.Places[0]
	assert.Equal(t, "Austin", place.PlaceName)
	assert.Equal(t, "TX", place.StateAbbreviation)
	assert.Equal(t, "30.2713", place.Latitude)
	assert.Equal(t, "-97.7426", place.Longitude)
}

func TestGetPlaces_NotFound(t *testing.T) {
	// A API retorna 404 para zip codes desconhecidos
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	response, err := client.GetPlaces(context.Background(), "00000")
	assert.Error(t, err)
	assert.Nil(t, response)
}

func TestGetPlaces_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"places": [`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	response, err := client.GetPlaces(context.Background(), "78701")
	assert.Error(t, err)
	assert.Nil(t, response)
}
