package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/nextmatch/matching-engine/internal/domain"
)

// ResultProducer publishes JobResult records to the batch results
// topic. It is the consumer side of the boundary: the batch Consumer
// owns one of these and calls Publish after every Match call.
type ResultProducer struct {
	client *kgo.Client
	topic  string
}

// NewResultProducer connects to brokers and ensures the result topic
// exists before returning.
func NewResultProducer(brokers []string, topic string) (*ResultProducer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no seed brokers provided")
	}

	kotelTracer := kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()))
	kotelService := kotel.NewKotel(kotel.WithTracer(kotelTracer))

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.RequestRetries(10),
		kgo.ProducerBatchMaxBytes(1_000_000),
		kgo.WithHooks(kotelService.Hooks()...),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	if err := createTopicIfNotExists(context.Background(), client, topic, 4, 1); err != nil {
		slog.Warn("failed to create batch result topic, it may already exist",
			slog.String("topic", topic), slog.Any("error", err))
	}

	return &ResultProducer{client: client, topic: topic}, nil
}

// Publish serializes result and produces it to the result topic keyed
// by job ID, for ordered delivery within a partition.
func (p *ResultProducer) Publish(ctx domain.Context, result JobResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal job result: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(result.ID),
		Value: data,
	}

	produceResult := p.client.ProduceSync(ctx, record)
	if err := produceResult.FirstErr(); err != nil {
		slog.Error("failed to publish batch result", slog.String("job_id", result.ID), slog.Any("error", err))
		return fmt.Errorf("produce result: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (p *ResultProducer) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}
