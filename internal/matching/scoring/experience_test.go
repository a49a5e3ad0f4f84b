package scoring_test

import (
	"context"
	"testing"

	"github.com/nextmatch/matching-engine/internal/domain"
	"github.com/nextmatch/matching-engine/internal/matching/scoring"
	"github.com/stretchr/testify/assert"
)

func TestExperienceScorer_S1_InRange(t *testing.T) {
	scorer := scoring.NewExperienceScorer()

	candidate := domain.CandidateProfile{ExperienceLevel: domain.Confirmed}
	company := domain.CompanyProfile{Requirements: domain.Requirements{ExperienceRequired: "5 years - 10 years"}}

	result := scorer.Score(context.Background(), candidate, company)
	assert.Equal(t, 7.0, result.Details["candidateYears"])
	assert.Equal(t, 1.0, result.Details["baseScore"])
}

func TestExperienceScorer_S2_Overqualified(t *testing.T) {
	scorer := scoring.NewExperienceScorer()

	candidate := domain.CandidateProfile{ExperienceLevel: domain.Senior}
	company := domain.CompanyProfile{Requirements: domain.Requirements{ExperienceRequired: "1 year - 3 years"}}

	result := scorer.Score(context.Background(), candidate, company)
	assert.LessOrEqual(t, result.Score, 0.7)
}

func TestExperienceScorer_ParseUnparseableDefault(t *testing.T) {
	scorer := scoring.NewExperienceScorer()

	candidate := domain.CandidateProfile{ExperienceLevel: domain.Junior}
	company := domain.CompanyProfile{Requirements: domain.Requirements{ExperienceRequired: "junior profile wanted"}}

	result := scorer.Score(context.Background(), candidate, company)
	assert.Equal(t, 2, result.Details["experienceMin"])
	assert.Equal(t, 10, result.Details["experienceMax"])
}

func TestExperienceScorer_ParseSingleNumber(t *testing.T) {
	scorer := scoring.NewExperienceScorer()

	candidate := domain.CandidateProfile{ExperienceLevel: domain.Entry}
	company := domain.CompanyProfile{Requirements: domain.Requirements{ExperienceRequired: "5 ans"}}

	result := scorer.Score(context.Background(), candidate, company)
	assert.Equal(t, 5, result.Details["experienceMin"])
	assert.Equal(t, 7, result.Details["experienceMax"])
}

func TestExperienceScorer_DurationSumFromExperiences(t *testing.T) {
	scorer := scoring.NewExperienceScorer()

	candidate := domain.CandidateProfile{
		ExperienceLevel: domain.Junior,
		Experiences: []domain.Experience{
			{Duration: "2 years"},
			{Duration: "18 months"},
		},
	}
	company := domain.CompanyProfile{Requirements: domain.Requirements{ExperienceRequired: "2 years - 4 years"}}

	result := scorer.Score(context.Background(), candidate, company)
	// 2 + 1.5 = 3.5 years, below levelBase(JUNIOR)+2 = 5 cap
	assert.InDelta(t, 3.5, result.Details["candidateYears"], 1e-9)
}

func TestExperienceScorer_Bounded(t *testing.T) {
	scorer := scoring.NewExperienceScorer()
	result := scorer.Score(context.Background(), domain.CandidateProfile{}, domain.CompanyProfile{})
	assert.GreaterOrEqual(t, result.Score, 0.0)
	assert.LessOrEqual(t, result.Score, 1.0)
	assert.LessOrEqual(t, result.Confidence, 0.95)
}

func TestExperienceScorer_Name(t *testing.T) {
	assert.Equal(t, "experience", scoring.NewExperienceScorer().Name())
}
