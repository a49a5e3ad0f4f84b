package geo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nextmatch/matching-engine/internal/adapter/geo"
	"github.com/nextmatch/matching-engine/internal/config"
	"github.com/nextmatch/matching-engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) config.Config {
	return config.Config{
		AppEnv:                "test",
		GeoServiceURL:         url,
		GeoServiceTimeout:     time.Second,
		GeoCircuitMaxFailures: 5,
		GeoCircuitTimeout:     10 * time.Millisecond,
	}
}

func TestNew_ReturnsNilWhenURLUnset(t *testing.T) {
	c := geo.New(config.Config{GeoServiceURL: ""})
	assert.Nil(t, c)
}

func TestEstimate_SuccessfulRoundtrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/estimate", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"travelScore": 0.82,
			"reachable":   true,
		})
	}))
	defer srv.Close()

	c := geo.New(testConfig(srv.URL))
	require.NotNil(t, c)

	est, err := c.Estimate(context.Background(), domain.GeoRequest{
		OriginHint:      "Paris",
		DestinationHint: "Lyon",
		MaxDistanceKm:   50,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.82, est.TravelScore)
	assert.True(t, est.Reachable)
}

func TestEstimate_4xxIsNonRetryableAndReturnsError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := geo.New(testConfig(srv.URL))
	_, err := c.Estimate(context.Background(), domain.GeoRequest{OriginHint: "A", DestinationHint: "B"})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestEstimate_5xxRetriesThenFails(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := geo.New(testConfig(srv.URL))
	_, err := c.Estimate(context.Background(), domain.GeoRequest{OriginHint: "A", DestinationHint: "B"})

	require.Error(t, err)
	assert.Greater(t, calls, 1)
}

func TestEstimate_CircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.GeoCircuitMaxFailures = 1
	c := geo.New(cfg)

	_, err1 := c.Estimate(context.Background(), domain.GeoRequest{OriginHint: "A", DestinationHint: "B"})
	require.Error(t, err1)

	_, err2 := c.Estimate(context.Background(), domain.GeoRequest{OriginHint: "A", DestinationHint: "B"})
	require.Error(t, err2)
	assert.Contains(t, err2.Error(), "circuit breaker")
}
