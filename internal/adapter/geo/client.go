// Package geo implements the optional HTTP-based Geo Service collaborator
// the Location scorer may delegate to. Absent or failing, callers fall
// back to the scorer's own heuristic.
package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nextmatch/matching-engine/internal/adapter/observability"
	"github.com/nextmatch/matching-engine/internal/config"
	"github.com/nextmatch/matching-engine/internal/domain"
)

// Client implements domain.GeoService against an HTTP endpoint exposing
// a single POST /estimate operation (§6).
type Client struct {
	baseURL string
	hc      *http.Client
	backoff func() *backoff.ExponentialBackOff
	breaker *observability.CircuitBreaker
}

// New builds a Client. Returns nil if cfg.GeoServiceURL is unset, in
// which case callers should skip delegation entirely.
func New(cfg config.Config) *Client {
	baseURL := strings.TrimSpace(cfg.GeoServiceURL)
	if baseURL == "" {
		return nil
	}

	transport := otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return fmt.Sprintf("Geo %s %s", r.Method, r.URL.Host)
		}),
	)

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: cfg.GeoServiceTimeout, Transport: transport},
		backoff: func() *backoff.ExponentialBackOff {
			expo := backoff.NewExponentialBackOff()
			maxElapsed, initial, maxInterval, multiplier := cfg.GetGeoBackoffConfig()
			expo.MaxElapsedTime = maxElapsed
			expo.InitialInterval = initial
			expo.MaxInterval = maxInterval
			expo.Multiplier = multiplier
			return expo
		},
		breaker: observability.GetCircuitBreaker("geo-service:"+baseURL, cfg.GeoCircuitMaxFailures, cfg.GeoCircuitTimeout),
	}
}

type estimateRequest struct {
	OriginHint       string         `json:"originHint"`
	DestinationHint  string         `json:"destinationHint"`
	MaxDistanceKm    int            `json:"maxDistanceKm,omitempty"`
	TransportModes   []string       `json:"transportModes,omitempty"`
	MaxTravelMinutes map[string]int `json:"maxTravelMinutes,omitempty"`
}

type estimateResponse struct {
	TravelScore float64        `json:"travelScore"`
	Reachable   bool           `json:"reachable"`
	Details     map[string]any `json:"details,omitempty"`
}

// Estimate implements domain.GeoService. It retries transient failures
// with exponential backoff and is guarded by a circuit breaker so a
// degraded Geo Service fails fast instead of stalling every match.
func (c *Client) Estimate(ctx domain.Context, req domain.GeoRequest) (domain.GeoEstimate, error) {
	if c.breaker.IsOpen() {
		return domain.GeoEstimate{}, fmt.Errorf("geo service circuit breaker open")
	}

	body := estimateRequest{
		OriginHint:       req.OriginHint,
		DestinationHint:  req.DestinationHint,
		MaxDistanceKm:    req.MaxDistanceKm,
		TransportModes:   modeNames(req.TransportModes),
		MaxTravelMinutes: minutesByName(req.MaxTravelMinutes),
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return domain.GeoEstimate{}, fmt.Errorf("geo: encode request: %w", err)
	}

	var out estimateResponse
	callErr := c.breaker.Call(func() error {
		bo := backoff.WithContext(c.backoff(), ctx)
		return backoff.Retry(func() error {
			return c.doEstimate(ctx, payload, &out)
		}, bo)
	})
	if callErr != nil {
		slog.Warn("geo service estimate failed", slog.Any("error", callErr))
		return domain.GeoEstimate{}, callErr
	}

	return domain.GeoEstimate{
		TravelScore: out.TravelScore,
		Reachable:   out.Reachable,
		Details:     out.Details,
	}, nil
}

func (c *Client) doEstimate(ctx context.Context, payload []byte, out *estimateResponse) error {
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/estimate", bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(err)
	}
	r.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(r)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return backoff.Permanent(fmt.Errorf("geo service status %d: %s", resp.StatusCode, string(bodyBytes)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("geo service status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("geo: decode response: %w", err))
	}
	return nil
}

func modeNames(modes map[domain.TransportMode]struct{}) []string {
	if len(modes) == 0 {
		return nil
	}
	names := make([]string, 0, len(modes))
	for m := range modes {
		names = append(names, string(m))
	}
	return names
}

func minutesByName(minutes map[domain.TransportMode]int) map[string]int {
	if len(minutes) == 0 {
		return nil
	}
	out := make(map[string]int, len(minutes))
	for m, v := range minutes {
		out[string(m)] = v
	}
	return out
}
