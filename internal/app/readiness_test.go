package app_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nextmatch/matching-engine/internal/app"
	"github.com/nextmatch/matching-engine/internal/config"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func TestDatabaseReadinessCheck_ReportsPoolError(t *testing.T) {
	check := app.DatabaseReadinessCheck(stubPinger{err: errors.New("connection refused")})
	assert.Error(t, check(context.Background()))
}

func TestDatabaseReadinessCheck_HealthyPool(t *testing.T) {
	check := app.DatabaseReadinessCheck(stubPinger{})
	assert.NoError(t, check(context.Background()))
}

func TestGeoReadinessCheck_NoGeoServiceConfigured(t *testing.T) {
	check := app.GeoReadinessCheck(config.Config{})
	assert.NoError(t, check(context.Background()))
}

func TestGeoReadinessCheck_HealthyUpstream(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	check := app.GeoReadinessCheck(config.Config{GeoServiceURL: ts.URL})
	assert.NoError(t, check(context.Background()))
}

func TestGeoReadinessCheck_UnhealthyUpstream(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	check := app.GeoReadinessCheck(config.Config{GeoServiceURL: ts.URL})
	assert.Error(t, check(context.Background()))
}
