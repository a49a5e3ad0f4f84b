// Command server starts the matching engine HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nextmatch/matching-engine/internal/adapter/cachestore"
	"github.com/nextmatch/matching-engine/internal/adapter/geo"
	"github.com/nextmatch/matching-engine/internal/adapter/httpserver"
	"github.com/nextmatch/matching-engine/internal/adapter/observability"
	"github.com/nextmatch/matching-engine/internal/adapter/repo/postgres"
	"github.com/nextmatch/matching-engine/internal/app"
	"github.com/nextmatch/matching-engine/internal/config"
	"github.com/nextmatch/matching-engine/internal/domain"
	"github.com/nextmatch/matching-engine/internal/matching/recommend"
	"github.com/nextmatch/matching-engine/internal/matching/scoring"
	"github.com/nextmatch/matching-engine/internal/matching/tables"
	"github.com/nextmatch/matching-engine/internal/matching/weighting"
	"github.com/nextmatch/matching-engine/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()

	synonyms, weightTables, err := tables.Load()
	if err != nil {
		slog.Error("synonym/weight table load failed", slog.Any("error", err))
		os.Exit(1)
	}

	cache := buildCache(cfg, logger)

	var geoSvc domain.GeoService
	if client := geo.New(cfg); client != nil {
		geoSvc = client
		slog.Info("geo service collaborator enabled", slog.String("url", cfg.GeoServiceURL))
	} else {
		slog.Info("geo service collaborator disabled, location scorer running in heuristic mode")
	}

	scorers := []domain.Scorer{
		scoring.NewSemanticScorer(synonyms).WithEmbedder(scoring.NewHashEmbedder()),
		scoring.NewSalaryScorer(),
		scoring.NewExperienceScorer(),
		scoring.NewLocationScorer(geoSvc),
	}

	averages := observability.NewComponentAverageTracker(cfg.StatsWindow)
	matcher := usecase.NewMatcherService(cache, scorers, weighting.NewEngine(weightTables), recommend.NewSynthesizer(), cfg.DefaultDeadlineMs, averages)

	var pool *pgxpool.Pool
	if dbPool, err := postgres.NewPool(ctx, cfg.DBURL); err != nil {
		slog.Warn("profile store database connect failed, profile lookups by ID will be unavailable", slog.Any("error", err))
	} else {
		pool = dbPool
		matcher.WithProfileStore(postgres.NewProfileRepo(pool))
	}

	srv := httpserver.NewServer(matcher, cfg.MaxRequestBodyKB)
	wireReadinessChecks(srv, cfg, pool)

	handler := app.BuildRouter(cfg, srv, logger)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
	if pool != nil {
		pool.Close()
	}
}

// buildCache constructs the result cache backend named by
// cfg.CacheBackend, falling back to the in-memory implementation on an
// unrecognized value or a broken Redis connection.
func buildCache(cfg config.Config, logger *slog.Logger) domain.Cache {
	if cfg.CacheBackend != "redis" {
		return cachestore.NewMemoryCache(cfg.CacheTTL, cfg.CacheMaxSize)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis cache backend unreachable, falling back to in-memory cache", slog.Any("error", err))
		return cachestore.NewMemoryCache(cfg.CacheTTL, cfg.CacheMaxSize)
	}
	return cachestore.NewRedisCache(client, cfg.CacheTTL, "matching")
}

// wireReadinessChecks registers the dependency probes /readyz reports
// on: the profile store database (when configured), the result cache
// backend, and the optional Geo Service collaborator.
func wireReadinessChecks(srv *httpserver.Server, cfg config.Config, pool *pgxpool.Pool) {
	if pool != nil {
		srv.ReadyDependencies["database"] = app.DatabaseReadinessCheck(pool)
	}
	if cfg.CacheBackend == "redis" {
		srv.ReadyDependencies["cache"] = func(ctx context.Context) error {
			client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
			defer func() { _ = client.Close() }()
			return client.Ping(ctx).Err()
		}
	}
	srv.ReadyDependencies["geo"] = app.GeoReadinessCheck(cfg)
}
