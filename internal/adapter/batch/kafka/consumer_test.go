package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/nextmatch/matching-engine/internal/domain"
)

type stubMatcher struct {
	resp domain.MatchingResponse
}

func (s stubMatcher) Match(_ domain.Context, _ domain.MatchingRequest) domain.MatchingResponse {
	return s.resp
}

func TestConsumer_ProcessRecord_SkipsPublishWithoutProducer(t *testing.T) {
	ctx := context.Background()

	matcher := stubMatcher{resp: domain.MatchingResponse{Compatibility: domain.Good, FinalScore: 0.75}}
	c := &Consumer{matcher: matcher, topic: "matching.requests", groupID: "batch"}

	job := JobRequest{
		ID:        "job-1",
		Candidate: domain.CandidateProfile{Personal: domain.PersonalInfo{FirstName: "Ada"}},
		Company:   domain.CompanyProfile{Company: domain.CompanyInfo{Name: "Acme"}},
	}
	value, err := json.Marshal(job)
	require.NoError(t, err)

	rec := &kgo.Record{Topic: "matching.requests", Key: []byte("job-1"), Value: value}

	// No producer wired: processRecord must not panic when publishing is
	// skipped, and it still computes a result via matcher.Match.
	c.processRecord(ctx, rec)
}

func TestConsumer_ProcessRecord_DecodeFailureDoesNotPanic(t *testing.T) {
	ctx := context.Background()
	c := &Consumer{matcher: stubMatcher{}, topic: "matching.requests", groupID: "batch"}

	rec := &kgo.Record{Topic: "matching.requests", Key: []byte("bad"), Value: []byte("not json")}
	assert.NotPanics(t, func() { c.processRecord(ctx, rec) })
}

func TestConsumer_ProcessRecord_MintsIDWhenMissing(t *testing.T) {
	ctx := context.Background()
	matcher := stubMatcher{resp: domain.MatchingResponse{Compatibility: domain.Good}}
	c := &Consumer{matcher: matcher, topic: "matching.requests", groupID: "batch"}

	job := JobRequest{Candidate: domain.CandidateProfile{}, Company: domain.CompanyProfile{}}
	value, err := json.Marshal(job)
	require.NoError(t, err)

	rec := &kgo.Record{Topic: "matching.requests", Value: value}
	assert.NotPanics(t, func() { c.processRecord(ctx, rec) })
}
