package scoring_test

import (
	"context"
	"testing"

	"github.com/nextmatch/matching-engine/internal/domain"
	"github.com/nextmatch/matching-engine/internal/matching/scoring"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestSalaryScorer_S1_OverlappingRanges(t *testing.T) {
	scorer := scoring.NewSalaryScorer()

	candidate := domain.CandidateProfile{
		ExperienceLevel: domain.Confirmed,
		Expectations:    domain.Expectations{SalaryMin: 38000, SalaryMax: 45000},
	}
	company := domain.CompanyProfile{
		Job:    domain.Job{SalaryMin: intPtr(35000), SalaryMax: intPtr(42000)},
		Hiring: domain.Hiring{Urgency: domain.Urgent},
	}

	result := scorer.Score(context.Background(), candidate, company)
	overlap, ok := result.Details["overlapAmount"].(float64)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, overlap, 4000.0)
	assert.GreaterOrEqual(t, result.Score, 0.0)
	assert.LessOrEqual(t, result.Score, 1.0)
}

func TestSalaryScorer_CandidateAboveCompany(t *testing.T) {
	scorer := scoring.NewSalaryScorer()

	candidate := domain.CandidateProfile{Expectations: domain.Expectations{SalaryMin: 70000, SalaryMax: 90000}}
	company := domain.CompanyProfile{Job: domain.Job{SalaryMin: intPtr(30000), SalaryMax: intPtr(35000)}}

	result := scorer.Score(context.Background(), candidate, company)
	assert.Less(t, result.Score, 0.5)
}

func TestSalaryScorer_MissingCompanyBounds(t *testing.T) {
	scorer := scoring.NewSalaryScorer()

	candidate := domain.CandidateProfile{Expectations: domain.Expectations{SalaryMin: 40000, SalaryMax: 50000}}
	company := domain.CompanyProfile{Job: domain.Job{}}

	result := scorer.Score(context.Background(), candidate, company)
	assert.GreaterOrEqual(t, result.Score, 0.0)
	assert.LessOrEqual(t, result.Score, 1.0)
	assert.Contains(t, result.Details["companyRange"], "+")
}

func TestSalaryScorer_ConfidenceThreshold(t *testing.T) {
	scorer := scoring.NewSalaryScorer()

	highCompat := domain.CandidateProfile{Expectations: domain.Expectations{SalaryMin: 40000, SalaryMax: 45000}}
	companyMatching := domain.CompanyProfile{Job: domain.Job{SalaryMin: intPtr(40000), SalaryMax: intPtr(45000)}}
	result := scorer.Score(context.Background(), highCompat, companyMatching)
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)

	lowCompat := domain.CandidateProfile{Expectations: domain.Expectations{SalaryMin: 90000, SalaryMax: 100000}}
	companyFar := domain.CompanyProfile{Job: domain.Job{SalaryMin: intPtr(30000), SalaryMax: intPtr(32000)}}
	result2 := scorer.Score(context.Background(), lowCompat, companyFar)
	assert.InDelta(t, 0.6, result2.Confidence, 1e-9)
}

func TestSalaryScorer_Name(t *testing.T) {
	assert.Equal(t, "salary", scoring.NewSalaryScorer().Name())
}
