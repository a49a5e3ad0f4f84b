package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/nextmatch/matching-engine/internal/domain"
)

// LocationScorer measures geographic and remote-work compatibility.
// Distance estimation delegates to an optional Geo Service collaborator;
// absent one (or on its failure), it falls back to a heuristic.
type LocationScorer struct {
	geo domain.GeoService
}

// NewLocationScorer builds a LocationScorer. geo may be nil, in which
// case the scorer always runs in heuristic mode.
func NewLocationScorer(geo domain.GeoService) *LocationScorer {
	return &LocationScorer{geo: geo}
}

// Name implements domain.Scorer.
func (s *LocationScorer) Name() string { return "location" }

// Score implements domain.Scorer.
func (s *LocationScorer) Score(ctx domain.Context, candidate domain.CandidateProfile, company domain.CompanyProfile) (result domain.ScoringResult) {
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

	candidateLoc := candidate.Expectations.PreferredLocation
	companyLoc := company.Job.Location
	heuristicApplicable := candidateLoc != "" || companyLoc != ""

	equality := locationEquality(candidateLoc, companyLoc)
	remote := remoteCompatibility(company.WorkConditions.RemotePossible, candidate.Expectations.RemoteAccepted)

	if s.geo != nil {
		req := domain.GeoRequest{
			OriginHint:      candidateLoc,
			DestinationHint: companyLoc,
			MaxDistanceKm:   candidate.Expectations.MaxDistanceKm,
			TransportModes: map[domain.TransportMode]struct{}{
				domain.Car:             {},
				domain.PublicTransport: {},
			},
		}
		if est, err := s.geo.Estimate(ctx, req); err == nil {
			score := clamp01(0.60*equality + 0.25*est.TravelScore + 0.15*remote)
			confidence := 0.9
			if !est.Reachable {
				confidence = 0.75
			}
			return domain.ScoringResult{
				Score:      score,
				Confidence: confidence,
				Details: map[string]any{
					"locationEquality": equality,
					"distanceScore":    est.TravelScore,
					"remoteScore":      remote,
					"geoUsed":          true,
					"reachable":        est.Reachable,
				},
				ProcessingTimeMs: elapsedMs(start),
			}
		}
	}

	if !heuristicApplicable {
		return domain.ScoringResult{
			Score:      0.5,
			Confidence: 0.3,
			Details: map[string]any{
				"locationEquality": 0.0,
				"geoUsed":          false,
				"reason":           "insufficient location data",
			},
			ProcessingTimeMs: elapsedMs(start),
		}
	}

	distance := distanceHeuristic(equality, candidate.Expectations.MaxDistanceKm)
	score := clamp01(0.60*equality + 0.25*distance + 0.15*remote)

	return domain.ScoringResult{
		Score:      score,
		Confidence: 0.7,
		Details: map[string]any{
			"locationEquality": equality,
			"distanceScore":    distance,
			"remoteScore":      remote,
			"geoUsed":          false,
		},
		ProcessingTimeMs: elapsedMs(start),
	}
}

// locationEquality implements §4.5's location equality sub-score.
func locationEquality(a, b string) float64 {
	la, lb := strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if la == "" && lb == "" {
		return 0.3
	}
	if la == lb {
		return 1.0
	}
	if overlapsAny(tokenSet(a), tokenSet(b)) {
		return 0.8
	}
	if strings.Contains(la, "paris") && strings.Contains(lb, "paris") {
		return 0.7
	}
	return 0.3
}

// distanceHeuristic implements §4.5's distance-estimation sub-score for
// the non-Geo-Service path.
func distanceHeuristic(equality float64, maxDistanceKm int) float64 {
	if equality >= 0.8 {
		return 1.0
	}
	switch {
	case maxDistanceKm >= 50:
		return 0.7
	case maxDistanceKm >= 30:
		return 0.5
	default:
		return 0.3
	}
}

// remoteCompatibility implements §4.5's remote compatibility sub-score.
func remoteCompatibility(companyRemote, candidateWantsRemote bool) float64 {
	switch {
	case companyRemote && candidateWantsRemote:
		return 1.0
	case !companyRemote && !candidateWantsRemote:
		return 1.0
	case companyRemote && !candidateWantsRemote:
		return 0.8
	default:
		return 0.3
	}
}
