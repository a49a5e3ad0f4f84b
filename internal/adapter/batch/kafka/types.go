// Package kafka implements the batch orchestration boundary: a
// franz-go consumer that pulls (candidate, company) pairs off a
// request topic, runs each through the matching engine, and publishes
// the resulting MatchingResponse to a results topic. The core matching
// operation never depends on this package; it exists because a
// complete system needs a caller-side way to rank over a corpus
// without the engine itself taking on that concern.
package kafka

import (
	"time"

	"github.com/nextmatch/matching-engine/internal/domain"
)

// JobRequest is the wire payload consumed from the batch request
// topic. ID is a ULID minted by the submitter; it round-trips into
// JobResult so producer and consumer agree on correlation without a
// shared database.
type JobRequest struct {
	ID        string
	Candidate domain.CandidateProfile
	Company   domain.CompanyProfile
}

// JobResult is the wire payload published to the batch results topic.
type JobResult struct {
	ID          string
	Response    domain.MatchingResponse
	Error       string
	ProcessedAt time.Time
}
