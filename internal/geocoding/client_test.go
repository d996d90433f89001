package geocoding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(serverURL string) *Client {
	c := NewClient("test-agent")
	c.baseURL = serverURL
	return c
}

func TestGeocodeSuccess(t *testing.T) {
	var gotQuery, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`[{"lat": "38.9", "lon": "-77.26"}]`))
	}))
	defer server.Close()

	result, err := testClient(server.URL).Geocode(context.Background(), "120 Main St, Vienna, VA")
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.InDelta(t, 38.9, result.Lat, 0.001)
	assert.InDelta(t, -77.26, result.Lon, 0.001)
	assert.Equal(t, "120 Main St, Vienna, VA", gotQuery)
	assert.Equal(t, "test-agent", gotAgent)
}

func TestGeocodeNoMatchIsFailedNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	result, err := testClient(server.URL).Geocode(context.Background(), "nowhere at all")
	require.NoError(t, err, "an address the geocoder cannot place is not a transport failure")
	assert.Equal(t, StatusFailed, result.Status)
}

func TestGeocodeBlankAddressSkipped(t *testing.T) {
	result, err := testClient("http://unused.invalid").Geocode(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, result.Status)
}

func TestGeocodeTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	result, err := testClient(server.URL).Geocode(context.Background(), "120 Main St")
	require.Error(t, err)
	assert.Equal(t, StatusFailed, result.Status)

	var geoErr *Error
	require.True(t, errors.As(err, &geoErr))
	assert.Equal(t, "120 Main St", geoErr.Address)
}

func TestGeocodeServerErrorIsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := testClient(server.URL).Geocode(context.Background(), "120 Main St")
	var geoErr *Error
	require.True(t, errors.As(err, &geoErr))
}
