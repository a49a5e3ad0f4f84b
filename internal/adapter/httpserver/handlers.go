package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nextmatch/matching-engine/internal/domain"
	"github.com/nextmatch/matching-engine/internal/usecase"
)

const maxMatchBodyBytes = 1 << 20 // 1 MiB, overridden by cfg.MaxRequestBodyKB at wiring time

// Server holds the dependencies HTTP handlers need. It has no knowledge
// of transport concerns like routing or middleware ordering — those
// live in the router.
type Server struct {
	Matcher           *usecase.MatcherService
	MaxRequestBodyKB  int64
	ReadyDependencies map[string]func(ctx context.Context) error
	startedAt         time.Time
}

// NewServer builds a Server wrapping the matching use case.
func NewServer(matcher *usecase.MatcherService, maxRequestBodyKB int64) *Server {
	return &Server{
		Matcher:           matcher,
		MaxRequestBodyKB:  maxRequestBodyKB,
		ReadyDependencies: map[string]func(ctx context.Context) error{},
		startedAt:         time.Now(),
	}
}

func (s *Server) bodyLimit() int64 {
	if s.MaxRequestBodyKB <= 0 {
		return maxMatchBodyBytes
	}
	return s.MaxRequestBodyKB * 1024
}

// MatchHandler implements POST /v1/match.
func (s *Server) MatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.bodyLimit())

		var dto matchRequestDTO
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&dto); err != nil {
			writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		if err := getValidator().Struct(dto); err != nil {
			writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), validationField(err))
			return
		}

		resp := s.Matcher.Match(r.Context(), dto.toDomain())
		writeJSON(w, http.StatusOK, fromMatchResponse(resp))
	}
}

// StatsHandler implements GET /v1/stats.
func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := s.Matcher.Stats(r.Context())
		writeJSON(w, http.StatusOK, statsResponseDTO{
			TotalMatches:        stats.TotalMatches,
			CacheHits:           stats.CacheHits,
			CacheHitRatePercent: stats.CacheHitRatePercent,
			AvgProcessingTimeMs: stats.AvgProcessingTimeMs,
			CacheSize:           stats.CacheSize,
			UptimeHours:         stats.UptimeHours,
			ComponentAverages:   stats.ComponentAverages,
		})
	}
}

// AdminCacheClearHandler implements POST /v1/admin/cache/clear.
func (s *Server) AdminCacheClearHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Matcher.ClearCache(r.Context()); err != nil {
			writeError(w, fmt.Errorf("%w: %v", domain.ErrInternal, err), nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}

// HealthzHandler implements GET /healthz: a liveness probe that never
// checks downstream dependencies.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyzHandler implements GET /readyz: a readiness probe that checks
// every registered dependency with a bounded timeout.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := make(map[string]string, len(s.ReadyDependencies))
		ok := true
		for name, check := range s.ReadyDependencies {
			if err := check(ctx); err != nil {
				checks[name] = err.Error()
				ok = false
				continue
			}
			checks[name] = "ok"
		}

		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]any{"ready": ok, "checks": checks})
	}
}
