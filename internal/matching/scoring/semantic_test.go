package scoring_test

import (
	"context"
	"strings"
	"testing"

	"github.com/nextmatch/matching-engine/internal/domain"
	"github.com/nextmatch/matching-engine/internal/matching/scoring"
	"github.com/nextmatch/matching-engine/internal/matching/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemanticScorer_S1_StrongMatch(t *testing.T) {
	_, _, err := tables.Load()
	require.NoError(t, err)
	syn, _, _ := tables.Load()
	scorer := scoring.NewSemanticScorer(syn)

	candidate := domain.CandidateProfile{
		ExperienceLevel: domain.Confirmed,
		Skills: domain.Skills{
			Technical: map[string]struct{}{"CEGID mastery": {}, "Accounting & tax management": {}},
		},
	}
	company := domain.CompanyProfile{
		Company: domain.CompanyInfo{Sector: ""},
		Job:     domain.Job{Title: "Sole Accountant"},
		Requirements: domain.Requirements{
			MandatoryCompetences: map[string]struct{}{"CEGID mastery": {}},
			DesiredCompetences:   map[string]struct{}{"Accounting & tax management": {}},
		},
	}

	result := scorer.Score(context.Background(), candidate, company)
	assert.GreaterOrEqual(t, result.Score, 0.5)
	assert.Equal(t, 1.0, result.Details["competenceScore"])
}

func TestSemanticScorer_EmptyRequiredCompetences_S6(t *testing.T) {
	syn, _, _ := tables.Load()
	scorer := scoring.NewSemanticScorer(syn)

	candidate := domain.CandidateProfile{
		Skills: domain.Skills{Technical: map[string]struct{}{"unrelated": {}}},
	}
	company := domain.CompanyProfile{
		Job: domain.Job{Title: ""},
	}

	result := scorer.Score(context.Background(), candidate, company)
	assert.Equal(t, 1.0, result.Details["competenceScore"])
	assert.GreaterOrEqual(t, result.Score, 0.5)
}

func TestSemanticScorer_RoleMismatch_S2(t *testing.T) {
	syn, _, _ := tables.Load()
	scorer := scoring.NewSemanticScorer(syn)

	candidate := domain.CandidateProfile{
		Skills: domain.Skills{Technical: map[string]struct{}{"Python": {}, "React": {}, "Kubernetes": {}}},
	}
	company := domain.CompanyProfile{
		Job: domain.Job{Title: "Junior Accountant"},
		Requirements: domain.Requirements{
			MandatoryCompetences: map[string]struct{}{"Accounting": {}, "CEGID": {}},
		},
	}

	result := scorer.Score(context.Background(), candidate, company)
	assert.Less(t, result.Score, 0.3)
}

func TestSemanticScorer_DeterministicAndBounded(t *testing.T) {
	syn, _, _ := tables.Load()
	scorer := scoring.NewSemanticScorer(syn)

	candidate := domain.CandidateProfile{
		Skills: domain.Skills{Technical: map[string]struct{}{"go": {}}},
		Experiences: []domain.Experience{
			{Title: "Backend Engineer", SkillsAcquired: map[string]struct{}{"go": {}}},
		},
	}
	company := domain.CompanyProfile{
		Job: domain.Job{Title: "Backend Engineer"},
		Requirements: domain.Requirements{
			MandatoryCompetences: map[string]struct{}{"go": {}},
		},
	}

	r1 := scorer.Score(context.Background(), candidate, company)
	r2 := scorer.Score(context.Background(), candidate, company)
	assert.Equal(t, r1.Score, r2.Score)
	assert.Equal(t, r1.Confidence, r2.Confidence)
	assert.GreaterOrEqual(t, r1.Score, 0.0)
	assert.LessOrEqual(t, r1.Score, 1.0)
	assert.LessOrEqual(t, r1.Confidence, 0.95)
}

func TestSemanticScorer_NoExperiences_NeutralTitle(t *testing.T) {
	scorer := scoring.NewSemanticScorer(nil)
	candidate := domain.CandidateProfile{}
	company := domain.CompanyProfile{Job: domain.Job{Title: "Anything"}}

	result := scorer.Score(context.Background(), candidate, company)
	assert.Equal(t, 0.5, result.Details["titleScore"])
}

func TestSemanticScorer_Name(t *testing.T) {
	assert.Equal(t, "semantic", scoring.NewSemanticScorer(nil).Name())
}

func TestSemanticScorer_DescriptionOverlapRaisesTitleScore(t *testing.T) {
	scorer := scoring.NewSemanticScorer(nil)

	candidate := domain.CandidateProfile{
		Experiences: []domain.Experience{
			{
				Title:       "Senior Widget Technician",
				Description: "Designed distributed caching layers and payment reconciliation pipelines",
			},
		},
	}
	company := domain.CompanyProfile{
		Job: domain.Job{
			Title:       "Backend Platform Engineer",
			Description: "Designed distributed caching layers and payment reconciliation pipelines",
		},
	}

	result := scorer.Score(context.Background(), candidate, company)
	// Titles share no tokens, so titleMatch alone would be 0; full
	// description overlap raises titleScore to 1.0.
	assert.Equal(t, 1.0, result.Details["titleScore"])
}

func TestSemanticScorer_DescriptionOverlapNeverLowersTitleScore(t *testing.T) {
	scorer := scoring.NewSemanticScorer(nil)
	candidate := domain.CandidateProfile{}
	company := domain.CompanyProfile{Job: domain.Job{Title: "Anything"}}

	result := scorer.Score(context.Background(), candidate, company)
	// No experiences and no description text on either side: titleScore
	// is titleMatch's own neutral 0.5, untouched by descriptionOverlap
	// (which reports ok=false and folds in nothing).
	assert.Equal(t, 0.5, result.Details["titleScore"])
}

func TestSemanticScorer_DescriptionOverlapHandlesPathologicalInput(t *testing.T) {
	scorer := scoring.NewSemanticScorer(nil)
	longDescription := strings.Repeat("distributed systems reliability engineering ", 5000)

	candidate := domain.CandidateProfile{
		Experiences: []domain.Experience{{Title: "Engineer", Description: longDescription}},
	}
	company := domain.CompanyProfile{Job: domain.Job{Title: "Engineer", Description: longDescription}}

	result := scorer.Score(context.Background(), candidate, company)
	assert.GreaterOrEqual(t, result.Score, 0.0)
	assert.LessOrEqual(t, result.Score, 1.0)
}
