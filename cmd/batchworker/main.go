// Command batchworker runs the batch orchestration consumer: it pulls
// (candidate, company) pairs off a Kafka-compatible topic, matches
// each pair through the same engine the HTTP server exposes, and
// publishes results to a results topic. Ranking over a corpus is a
// caller concern the core matching operation intentionally excludes;
// this process is that caller.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nextmatch/matching-engine/internal/adapter/batch/kafka"
	"github.com/nextmatch/matching-engine/internal/adapter/cachestore"
	"github.com/nextmatch/matching-engine/internal/adapter/geo"
	"github.com/nextmatch/matching-engine/internal/adapter/observability"
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

	synonyms, weightTables, err := tables.Load()
	if err != nil {
		slog.Error("synonym/weight table load failed", slog.Any("error", err))
		os.Exit(1)
	}

	var geoSvc domain.GeoService
	if client := geo.New(cfg); client != nil {
		geoSvc = client
	}

	scorers := []domain.Scorer{
		scoring.NewSemanticScorer(synonyms).WithEmbedder(scoring.NewHashEmbedder()),
		scoring.NewSalaryScorer(),
		scoring.NewExperienceScorer(),
		scoring.NewLocationScorer(geoSvc),
	}

	cache := cachestore.NewMemoryCache(cfg.CacheTTL, cfg.CacheMaxSize)
	averages := observability.NewComponentAverageTracker(cfg.StatsWindow)
	matcher := usecase.NewMatcherService(cache, scorers, weighting.NewEngine(weightTables), recommend.NewSynthesizer(), cfg.DefaultDeadlineMs, averages)

	producer, err := kafka.NewResultProducer(cfg.KafkaBrokers, cfg.BatchResultTopic)
	if err != nil {
		slog.Error("batch result producer init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			slog.Error("failed to close batch result producer", slog.Any("error", err))
		}
	}()

	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.BatchRequestTopic, cfg.BatchGroupID, matcher, producer)
	if err != nil {
		slog.Error("batch consumer init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			slog.Error("failed to close batch consumer", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("batch consumer run error", slog.Any("error", err))
		}
	}()

	slog.Info("batch worker started", slog.String("request_topic", cfg.BatchRequestTopic), slog.String("result_topic", cfg.BatchResultTopic))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("signal received, shutting down batch worker", slog.String("signal", sig.String()))
}
