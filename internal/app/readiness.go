// Package app wires application components and startup helpers.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nextmatch/matching-engine/internal/config"
)

// Pinger is the minimal interface for a database pool capable of Ping.
// Depending on the interface rather than *pgxpool.Pool directly keeps this
// package free of a driver import and lets tests supply a stub.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseReadinessCheck returns a readiness probe backed by pool.
func DatabaseReadinessCheck(pool Pinger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return pool.Ping(ctx)
	}
}

// GeoReadinessCheck returns a readiness probe for the optional Geo
// Service collaborator. It reports healthy when no Geo Service is
// configured, since the location scorer degrades to its heuristic mode
// in that case rather than failing.
func GeoReadinessCheck(cfg config.Config) func(ctx context.Context) error {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.GeoServiceURL), "/")
	return func(ctx context.Context) error {
		if baseURL == "" {
			return nil
		}
		client := &http.Client{Timeout: 2 * time.Second}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", nil)
		if err != nil {
			return fmt.Errorf("build geo readiness request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		return fmt.Errorf("geo service status %d", resp.StatusCode)
	}
}
