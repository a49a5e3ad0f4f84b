package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/nextmatch/matching-engine/internal/domain"
)

// unboundedSalary stands in for a missing company salary ceiling, large
// enough that it never realistically binds an overlap/positioning
// computation while staying finite (avoids NaN/Inf propagation).
const unboundedSalary = 10_000_000.0

// SalaryScorer measures range compatibility, positioning, and
// negotiability between candidate expectations and a job's budget.
type SalaryScorer struct{}

// NewSalaryScorer builds a SalaryScorer.
func NewSalaryScorer() *SalaryScorer { return &SalaryScorer{} }

// Name implements domain.Scorer.
func (s *SalaryScorer) Name() string { return "salary" }

// Score implements domain.Scorer.
func (s *SalaryScorer) Score(_ domain.Context, candidate domain.CandidateProfile, company domain.CompanyProfile) (result domain.ScoringResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = domain.ScoringResult{
				Details:          errorResultDetails(r),
				ProcessingTimeMs: elapsedMs(start),
				Error:            fmt.Sprintf("%v", r),
			}
		}
	}()

	cMin := float64(candidate.Expectations.SalaryMin)
	cMax := float64(candidate.Expectations.SalaryMax)
	eMin := 0.0
	if company.Job.SalaryMin != nil {
		eMin = float64(*company.Job.SalaryMin)
	}
	eMax := unboundedSalary
	if company.Job.SalaryMax != nil {
		eMax = float64(*company.Job.SalaryMax)
	}

	compatibility, overlapAmount := salaryCompatibility(cMin, cMax, eMin, eMax)
	positioning := salaryPositioning(cMin, cMax, eMin, eMax)
	negotiability := salaryNegotiability(company.Hiring.Urgency, candidate.ExperienceLevel)

	score := clamp01(0.60*compatibility + 0.25*positioning + 0.15*negotiability)

	confidence := 0.6
	if compatibility >= 0.7 {
		confidence = 0.9
	}

	return domain.ScoringResult{
		Score:      score,
		Confidence: confidence,
		Details: map[string]any{
			"candidateRange":    formatRange(cMin, cMax, true),
			"companyRange":      formatRange(eMin, eMax, company.Job.SalaryMax != nil),
			"compatibilityScore": compatibility,
			"positioningScore":  positioning,
			"negotiabilityScore": negotiability,
			"overlapAmount":     overlapAmount,
			"recommendation":    salaryRecommendation(cMin, cMax, eMin, eMax),
		},
		ProcessingTimeMs: elapsedMs(start),
	}
}

// salaryCompatibility implements §4.3's compatibility sub-score, plus the
// euro overlap amount surfaced in Details.
func salaryCompatibility(cMin, cMax, eMin, eMax float64) (score float64, overlapAmount float64) {
	overlapLo := math.Max(cMin, eMin)
	overlapHi := math.Min(cMax, eMax)
	if overlapHi > overlapLo {
		overlap := overlapHi - overlapLo
		cRange := cMax - cMin
		eRange := eMax - eMin
		avgRange := (cRange + eRange) / 2
		if avgRange <= 0 {
			return 1.0, overlap
		}
		ratio := overlap / avgRange
		if ratio > 1.0 {
			ratio = 1.0
		}
		return ratio, overlap
	}

	if cMin > eMax {
		if cMin == 0 {
			return 0, 0
		}
		return math.Max(0, 1-(cMin-eMax)/cMin), 0
	}
	if eMin > cMax {
		if eMin == 0 {
			return 0, 0
		}
		return math.Max(0, 1-(eMin-cMax)/eMin), 0
	}
	return 0, 0
}

// salaryPositioning implements §4.3's positioning sub-score.
func salaryPositioning(cMin, cMax, eMin, eMax float64) float64 {
	if eMax < cMin {
		return 0.0
	}
	if eMin > cMax {
		return 0.2
	}
	midC := (cMin + cMax) / 2
	midE := (eMin + eMax) / 2
	if midC == 0 {
		return 0.5
	}
	gap := math.Abs(midC-midE) / midC
	switch {
	case gap < 0.10:
		return 1.0
	case gap < 0.20:
		return 0.8
	default:
		return 0.5
	}
}

// salaryNegotiability implements §4.3's negotiability sub-score.
func salaryNegotiability(urgency domain.HiringUrgency, level domain.ExperienceLevel) float64 {
	score := 0.5
	switch urgency {
	case domain.Critical:
		score += 0.3
	case domain.Urgent:
		score += 0.2
	}
	if level == domain.Confirmed || level == domain.Senior {
		score += 0.2
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func salaryRecommendation(cMin, cMax, eMin, eMax float64) string {
	midC := (cMin + cMax) / 2
	midE := (eMin + eMax) / 2
	convergence := (midC + midE) / 2
	return fmt.Sprintf("Propose %d euros (convergence midpoint)", int(math.Round(convergence)))
}

func formatRange(min, max float64, hasMax bool) string {
	if !hasMax {
		return fmt.Sprintf("%d+", int(min))
	}
	return fmt.Sprintf("%d-%d", int(min), int(max))
}
