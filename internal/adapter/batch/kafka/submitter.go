package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/nextmatch/matching-engine/internal/domain"
)

// Submitter publishes JobRequest records to the batch request topic.
// It is the caller side of the boundary: whatever ranks over a corpus
// owns one of these and calls Submit once per (candidate, company)
// pair it wants matched.
type Submitter struct {
	client *kgo.Client
	topic  string
}

// NewSubmitter connects to brokers and ensures the request topic
// exists before returning.
func NewSubmitter(brokers []string, topic string) (*Submitter, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no seed brokers provided")
	}

	client, err := kgo.NewClient(kgo.SeedBrokers(brokers...), kgo.RequestRetries(10))
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	if err := createTopicIfNotExists(context.Background(), client, topic, 4, 1); err != nil {
		return nil, fmt.Errorf("ensure request topic: %w", err)
	}

	return &Submitter{client: client, topic: topic}, nil
}

// Submit mints a ULID job ID, publishes candidate/company as a
// JobRequest, and returns the ID for result correlation.
func (s *Submitter) Submit(ctx domain.Context, candidate domain.CandidateProfile, company domain.CompanyProfile) (string, error) {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), jobIDEntropy).String()
	job := JobRequest{ID: id, Candidate: candidate, Company: company}

	data, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("marshal job request: %w", err)
	}

	record := &kgo.Record{Topic: s.topic, Key: []byte(id), Value: data}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return "", fmt.Errorf("produce job request: %w", err)
	}
	return id, nil
}

// Close releases the underlying client.
func (s *Submitter) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}
