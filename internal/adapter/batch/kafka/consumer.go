package kafka

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/nextmatch/matching-engine/internal/domain"
)

var jobIDEntropy = ulid.Monotonic(rand.Reader, 0)

// Matcher is the subset of usecase.MatcherService the batch consumer
// depends on, kept narrow so tests can stub it.
type Matcher interface {
	Match(ctx domain.Context, req domain.MatchingRequest) domain.MatchingResponse
}

// Consumer pulls JobRequest records off the batch request topic, runs
// each through Matcher, and publishes a JobResult to the result topic.
// Match folds its own failures into the MatchingResponse; a panic inside
// Match is recovered and captured into JobResult.Error so one bad record
// cannot wedge the partition.
type Consumer struct {
	client   *kgo.Client
	producer *ResultProducer
	matcher  Matcher
	topic    string
	groupID  string
}

// NewConsumer connects to brokers, ensures the request topic exists,
// and joins groupID as a consumer of topic.
func NewConsumer(brokers []string, topic, groupID string, matcher Matcher, producer *ResultProducer) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no seed brokers provided")
	}
	if groupID == "" {
		return nil, fmt.Errorf("missing required group ID")
	}

	kotelTracer := kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()))
	kotelService := kotel.NewKotel(kotel.WithTracer(kotelTracer))

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topic),
		kgo.WithHooks(kotelService.Hooks()...),
		kgo.DialTimeout(10*time.Second),
		kgo.SessionTimeout(30*time.Second),
		kgo.HeartbeatInterval(3*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	if err := createTopicIfNotExists(context.Background(), client, topic, 4, 1); err != nil {
		slog.Warn("failed to create batch request topic, it may already exist",
			slog.String("topic", topic), slog.Any("error", err))
	}

	return &Consumer{client: client, producer: producer, matcher: matcher, topic: topic, groupID: groupID}, nil
}

// Run polls the request topic until ctx is cancelled, processing each
// record with processRecord.
func (c *Consumer) Run(ctx context.Context) error {
	slog.Info("batch consumer started", slog.String("topic", c.topic), slog.String("group_id", c.groupID))
	for {
		select {
		case <-ctx.Done():
			slog.Info("batch consumer shutting down")
			return ctx.Err()
		default:
		}

		fetches := c.client.PollFetches(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			for _, e := range errs {
				slog.Error("batch fetch error", slog.String("topic", e.Topic), slog.Int("partition", int(e.Partition)), slog.Any("error", e.Err))
			}
			continue
		}

		fetches.EachRecord(func(record *kgo.Record) {
			c.processRecord(ctx, record)
		})
	}
}

func (c *Consumer) processRecord(ctx context.Context, record *kgo.Record) {
	var job JobRequest
	if err := json.Unmarshal(record.Value, &job); err != nil {
		slog.Error("batch job decode failed", slog.Any("error", err), slog.Int64("offset", record.Offset))
		return
	}
	if job.ID == "" {
		job.ID = ulid.MustNew(ulid.Timestamp(time.Now()), jobIDEntropy).String()
	}

	result := JobResult{ID: job.ID, ProcessedAt: time.Now().UTC()}
	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Error = fmt.Sprintf("match panicked: %v", r)
				slog.Error("batch match panicked", slog.String("job_id", job.ID), slog.Any("panic", r))
			}
		}()
		result.Response = c.matcher.Match(ctx, domain.MatchingRequest{Candidate: job.Candidate, Company: job.Company})
	}()

	if c.producer != nil {
		if err := c.producer.Publish(ctx, result); err != nil {
			slog.Error("batch result publish failed", slog.String("job_id", job.ID), slog.Any("error", err))
		}
	}
}

// Close releases the underlying client.
func (c *Consumer) Close() error {
	if c.client != nil {
		c.client.Close()
	}
	return nil
}
