package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/current", r.URL.Path)
		assert.Equal(t, "Lisbon", r.URL.Query().Get("city"))
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"temperature_c": 31.5,
			"icon": "01d",
			"description": "clear sky",
			"city": "Lisbon",
			"observed_at": "2026-09-01T12:00:00Z"
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	sample, err := c.Current(context.Background(), "Lisbon")
	require.NoError(t, err)
	require.NotNil(t, sample)

	assert.InDelta(t, 31.5, sample.TemperatureC, 0.001)
	assert.Equal(t, "Lisbon", sample.City)
	assert.Equal(t, "clear sky", sample.Description)
	assert.Equal(t, 2026, sample.ObservedAt.Year())
}

func TestCurrentNilOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	sample, err := c.Current(context.Background(), "Lisbon")
	assert.Error(t, err)
	assert.Nil(t, sample)
}

func TestCurrentNilOnNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, "")
	sample, err := c.Current(context.Background(), "Lisbon")
	assert.Error(t, err)
	assert.Nil(t, sample)
}

func TestCurrentByCoords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("lat"))
		assert.NotEmpty(t, r.URL.Query().Get("lon"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"temperature_c": 18.0, "city": "Porto", "observed_at": "2026-09-01T12:00:00Z"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	sample, err := c.CurrentByCoords(context.Background(), 41.15, -8.62)
	require.NoError(t, err)
	assert.Equal(t, "Porto", sample.City)
}
