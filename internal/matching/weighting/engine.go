// Package weighting implements the adaptive weighting engine: candidate-
// side weight redistribution followed by a company-side urgency
// multiplier and mandatory renormalization.
package weighting

import (
	"github.com/nextmatch/matching-engine/internal/domain"
	"github.com/nextmatch/matching-engine/internal/matching/tables"
)

// Engine computes the candidate-phase and final (post-urgency,
// renormalized) weight vectors for a given listening reason and hiring
// urgency, per the fixed tables it was built with.
type Engine struct {
	tables *tables.WeightTables
}

// NewEngine builds an Engine backed by wt.
func NewEngine(wt *tables.WeightTables) *Engine {
	return &Engine{tables: wt}
}

// Compute derives a WeightingResult for one (listeningReason, urgency)
// pair. Unknown enum values degrade to the base weight vector / a
// neutral 1.0 multiplier rather than failing — the weighting engine
// never errors.
func (e *Engine) Compute(reason domain.ListeningReason, urgency domain.HiringUrgency) domain.WeightingResult {
	candidateVec := e.tables.Base
	if v, ok := e.tables.CandidateAdaptation[reason]; ok {
		candidateVec = v
	}

	multiplier := 1.0
	if m, ok := e.tables.UrgencyMultiplier[urgency]; ok {
		multiplier = m
	}

	final := renormalize(clampVector(scaleVector(candidateVec, multiplier)))

	return domain.WeightingResult{
		CandidateWeights:   candidateVec,
		CompanyWeights:     final,
		ListeningReason:    reason,
		Urgency:            urgency,
		ReasoningCandidate: e.tables.ReasoningCandidate[reason],
		ReasoningCompany:   e.tables.ReasoningUrgency[urgency],
	}
}

func scaleVector(v domain.WeightVector, mult float64) domain.WeightVector {
	return domain.WeightVector{
		Semantic:   v.Semantic * mult,
		Salary:     v.Salary * mult,
		Experience: v.Experience * mult,
		Location:   v.Location * mult,
	}
}

func clampVector(v domain.WeightVector) domain.WeightVector {
	return domain.WeightVector{
		Semantic:   clampUpper(v.Semantic),
		Salary:     clampUpper(v.Salary),
		Experience: clampUpper(v.Experience),
		Location:   clampUpper(v.Location),
	}
}

func clampUpper(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	if v < 0 {
		return 0
	}
	return v
}

// renormalize divides each component by the vector's sum so it totals
// 1.0, per §4.6's mandatory renormalization step. A zero-sum vector
// (degenerate tables) is returned unchanged rather than dividing by zero.
func renormalize(v domain.WeightVector) domain.WeightVector {
	sum := v.Sum()
	if sum <= 0 {
		return v
	}
	return domain.WeightVector{
		Semantic:   v.Semantic / sum,
		Salary:     v.Salary / sum,
		Experience: v.Experience / sum,
		Location:   v.Location / sum,
	}
}
