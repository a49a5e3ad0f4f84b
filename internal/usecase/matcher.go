// Package usecase contains application business logic services.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/nextmatch/matching-engine/internal/adapter/observability"
	"github.com/nextmatch/matching-engine/internal/domain"
	"github.com/nextmatch/matching-engine/internal/matching/fingerprint"
	"github.com/nextmatch/matching-engine/internal/matching/recommend"
	"github.com/nextmatch/matching-engine/internal/matching/weighting"
	"go.opentelemetry.io/otel"
)

var componentOrder = []string{"semantic", "salary", "experience", "location"}

// MatcherService orchestrates one matching operation end to end:
// fingerprinting, cache lookup, adaptive weighting, the scorer fan-out,
// aggregation, and recommendation synthesis. No error ever escapes
// Match — every failure mode folds into a well-formed MatchingResponse.
type MatcherService struct {
	Cache             domain.Cache
	Scorers           []domain.Scorer
	Weighting         *weighting.Engine
	Recommender       *recommend.Synthesizer
	DefaultDeadlineMs int
	Averages          *observability.ComponentAverageTracker
	Profiles          domain.ProfileStore

	startedAt       time.Time
	totalMatches    atomic.Int64
	processingSumNs atomic.Int64
	processingCount atomic.Int64
}

// NewMatcherService builds a MatcherService. defaultDeadlineMs is used
// when a request doesn't specify its own DeadlineMs; averages may be
// nil to skip the rolling per-component average stat.
func NewMatcherService(cache domain.Cache, scorers []domain.Scorer, weightingEngine *weighting.Engine, recommender *recommend.Synthesizer, defaultDeadlineMs int, averages *observability.ComponentAverageTracker) *MatcherService {
	return &MatcherService{
		Cache:             cache,
		Scorers:           scorers,
		Weighting:         weightingEngine,
		Recommender:       recommender,
		DefaultDeadlineMs: defaultDeadlineMs,
		Averages:          averages,
		startedAt:         time.Now(),
	}
}

// WithProfileStore attaches an opt-in profile store so MatchingRequest
// can reference candidate/company profiles by ID (SPEC_FULL §C).
func (m *MatcherService) WithProfileStore(store domain.ProfileStore) *MatcherService {
	m.Profiles = store
	return m
}

// MatchStats is the application-level view returned by the
// administrative stats() operation (§6).
type MatchStats struct {
	TotalMatches        int64
	CacheHits           int64
	CacheHitRatePercent float64
	AvgProcessingTimeMs float64
	CacheSize           int
	UptimeHours         float64
	ComponentAverages   map[string]float64
}

type cacheStatter interface {
	Stats(ctx domain.Context) domain.CacheStats
}

// Match runs the primary operation (§4.7).
func (m *MatcherService) Match(ctx domain.Context, req domain.MatchingRequest) domain.MatchingResponse {
	tr := otel.Tracer("usecase.matcher")
	ctx, span := tr.Start(ctx, "MatcherService.Match")
	defer span.End()

	start := time.Now()
	lg := observability.LoggerFromContext(ctx)
	m.totalMatches.Add(1)

	if reason := m.resolveProfiles(ctx, &req); reason != "" {
		lg.Warn("profile lookup failed", slog.String("reason", reason))
		resp := domain.MatchingResponse{
			Compatibility:    domain.Incompatible,
			SuccessOutlook:   domain.OutlookUnlikely,
			Attention:        []string{"Validation: " + reason},
			ProcessingTimeMs: elapsedMs(start),
		}
		m.recordStats(resp)
		return resp
	}

	if reason := validateRequest(req); reason != "" {
		lg.Warn("match validation failed", slog.String("reason", reason))
		resp := domain.MatchingResponse{
			Compatibility:    domain.Incompatible,
			SuccessOutlook:   domain.OutlookUnlikely,
			Attention:        []string{"Validation: " + reason},
			ProcessingTimeMs: elapsedMs(start),
		}
		m.recordStats(resp)
		return resp
	}

	key := fingerprint.MatchKey(req.Candidate, req.Company)

	if !req.ForceAdaptive && m.Cache != nil {
		if resp, ok, err := m.Cache.Get(ctx, key); err == nil && ok {
			observability.RecordCacheLookup("hit")
			m.recordStats(resp)
			return resp
		}
		observability.RecordCacheLookup("miss")
	}

	weightingResult := m.Weighting.Compute(req.Candidate.Motivation.ListeningReason, req.Company.Hiring.Urgency)

	deadlineMs := req.DeadlineMs
	if deadlineMs <= 0 {
		deadlineMs = m.DefaultDeadlineMs
	}
	scorerCtx, cancel := context.WithTimeout(ctx, time.Duration(deadlineMs)*time.Millisecond)
	defer cancel()

	components := m.runScorers(scorerCtx, req.Candidate, req.Company)

	finalScore, err := aggregate(components, weightingResult.CompanyWeights)
	if err != nil {
		lg.Error("aggregation failed", slog.Any("error", err))
		resp := domain.MatchingResponse{
			Compatibility:    domain.Incompatible,
			SuccessOutlook:   domain.OutlookUnlikely,
			Attention:        []string{"System error: " + err.Error()},
			ProcessingTimeMs: elapsedMs(start),
		}
		m.recordStats(resp)
		return resp
	}

	confidence := computeConfidence(components)
	compatibility := compatibilityBand(finalScore)
	outlook := successOutlook(finalScore, confidence)
	candidateRecs, companyRecs, strengths, attention := m.Recommender.Synthesize(components, weightingResult)

	resp := domain.MatchingResponse{
		FinalScore:               finalScore,
		Confidence:               confidence,
		Compatibility:            compatibility,
		SuccessOutlook:           outlook,
		Components:               components,
		Weighting:                weightingResult,
		RecommendationsCandidate: candidateRecs,
		RecommendationsCompany:   companyRecs,
		Strengths:                strengths,
		Attention:                attention,
		ProcessingTimeMs:         elapsedMs(start),
	}

	observability.ObserveMatch(resp.ProcessingTimeMs, resp.FinalScore, string(resp.Compatibility))

	if scorerCtx.Err() == nil && m.Cache != nil {
		if err := m.Cache.Set(ctx, key, resp); err != nil {
			lg.Warn("cache insert failed", slog.Any("error", err))
		}
	}

	m.recordStats(resp)
	return resp
}

// Stats implements the administrative stats() operation (§6, SPEC_FULL §D.2).
func (m *MatcherService) Stats(ctx domain.Context) MatchStats {
	total := m.totalMatches.Load()
	count := m.processingCount.Load()

	avg := 0.0
	if count > 0 {
		avg = float64(m.processingSumNs.Load()) / float64(count) / float64(time.Millisecond)
	}

	var cacheHits int64
	var cacheSize int
	if sp, ok := m.Cache.(cacheStatter); ok {
		stats := sp.Stats(ctx)
		cacheHits = stats.Hits
		cacheSize = stats.Size
	} else if m.Cache != nil {
		cacheSize, _ = m.Cache.Size(ctx)
	}

	hitRate := 0.0
	if total > 0 {
		hitRate = float64(cacheHits) / float64(total) * 100.0
	}

	var averages map[string]float64
	if m.Averages != nil {
		averages = m.Averages.AverageAll()
	}

	return MatchStats{
		TotalMatches:        total,
		CacheHits:           cacheHits,
		CacheHitRatePercent: hitRate,
		AvgProcessingTimeMs: avg,
		CacheSize:           cacheSize,
		UptimeHours:         time.Since(m.startedAt).Hours(),
		ComponentAverages:   averages,
	}
}

// ClearCache implements the administrative clearCache() operation (§6).
func (m *MatcherService) ClearCache(ctx domain.Context) error {
	if m.Cache == nil {
		return nil
	}
	return m.Cache.Clear(ctx)
}

func (m *MatcherService) recordStats(resp domain.MatchingResponse) {
	m.processingSumNs.Add(int64(resp.ProcessingTimeMs * float64(time.Millisecond)))
	m.processingCount.Add(1)
}

// runScorers fans the scorers out and waits for all of them, substituting
// a neutral zero-confidence result for anything unfinished when ctx
// expires (§5 deadline rule).
func (m *MatcherService) runScorers(ctx context.Context, candidate domain.CandidateProfile, company domain.CompanyProfile) domain.ComponentResults {
	type namedResult struct {
		name   string
		result domain.ScoringResult
	}

	ch := make(chan namedResult, len(m.Scorers))
	for _, sc := range m.Scorers {
		sc := sc
		go func() {
			ch <- namedResult{name: sc.Name(), result: sc.Score(ctx, candidate, company)}
		}()
	}

	results := make(map[string]domain.ScoringResult, len(m.Scorers))
collect:
	for i := 0; i < len(m.Scorers); i++ {
		select {
		case nr := <-ch:
			results[nr.name] = nr.result
		case <-ctx.Done():
			break collect
		}
	}

	cr := domain.ComponentResults{}
	for _, name := range componentOrder {
		r, ok := results[name]
		if !ok {
			r = domain.ScoringResult{Details: map[string]any{"timeout": true}}
		}
		setComponent(&cr, name, r)
		if m.Averages != nil {
			m.Averages.Record(name, r.Score)
		}
	}
	return cr
}

func setComponent(cr *domain.ComponentResults, name string, r domain.ScoringResult) {
	switch name {
	case "semantic":
		cr.Semantic = r
	case "salary":
		cr.Salary = r
	case "experience":
		cr.Experience = r
	case "location":
		cr.Location = r
	}
}

// aggregate implements §4.7 step 5 / P2.
func aggregate(components domain.ComponentResults, weights domain.WeightVector) (float64, error) {
	sum := weights.Sum()
	if sum < 0.99 || sum > 1.01 {
		return 0, fmt.Errorf("weight vector sums to %f, want ~1.0", sum)
	}
	score := components.Semantic.Score*weights.Semantic +
		components.Salary.Score*weights.Salary +
		components.Experience.Score*weights.Experience +
		components.Location.Score*weights.Location
	return clamp01(score), nil
}

// computeConfidence implements §4.7 step 6.
func computeConfidence(components domain.ComponentResults) float64 {
	results := []domain.ScoringResult{components.Semantic, components.Salary, components.Experience, components.Location}

	anyConfidence, anyScore := false, false
	var numerator, denominator float64
	for _, r := range results {
		if r.Confidence > 0 {
			anyConfidence = true
		}
		if r.Score > 0 {
			anyScore = true
		}
		numerator += r.Confidence * r.Score
		denominator += r.Score
	}
	if !anyConfidence || !anyScore || denominator == 0 {
		return 0
	}
	v := numerator / denominator
	if v > 0.95 {
		return 0.95
	}
	return v
}

// compatibilityBand implements §4.8.
func compatibilityBand(score float64) domain.Compatibility {
	switch {
	case score >= 0.85:
		return domain.Excellent
	case score >= 0.70:
		return domain.Good
	case score >= 0.50:
		return domain.Average
	case score >= 0.30:
		return domain.Poor
	default:
		return domain.Incompatible
	}
}

// successOutlook implements the supplemental successOutlook label
// (SPEC_FULL §D.1): a pure, deterministic function of finalScore and
// confidence, never a learned or probabilistic estimate.
func successOutlook(finalScore, confidence float64) domain.SuccessOutlook {
	switch {
	case finalScore >= 0.70 && confidence >= 0.6:
		return domain.OutlookLikely
	case finalScore < 0.40 || confidence < 0.3:
		return domain.OutlookUnlikely
	default:
		return domain.OutlookUncertain
	}
}

// resolveProfiles replaces req.Candidate/req.Company with profiles
// loaded from the attached ProfileStore when CandidateID/CompanyID are
// set, returning a non-empty reason string on lookup failure.
func (m *MatcherService) resolveProfiles(ctx domain.Context, req *domain.MatchingRequest) string {
	if req.CandidateID == "" && req.CompanyID == "" {
		return ""
	}
	if m.Profiles == nil {
		return "profile store not configured"
	}
	if req.CandidateID != "" {
		candidate, err := m.Profiles.GetCandidate(ctx, req.CandidateID)
		if err != nil {
			return fmt.Sprintf("candidateId lookup failed: %v", err)
		}
		req.Candidate = candidate
	}
	if req.CompanyID != "" {
		company, err := m.Profiles.GetCompany(ctx, req.CompanyID)
		if err != nil {
			return fmt.Sprintf("companyId lookup failed: %v", err)
		}
		req.Company = company
	}
	return ""
}

// validateRequest implements the validation-failure error kind (§7).
func validateRequest(req domain.MatchingRequest) string {
	if strings.TrimSpace(req.Candidate.Personal.FirstName) == "" {
		return "candidate firstName is required"
	}
	if strings.TrimSpace(req.Candidate.Personal.Email) == "" {
		return "candidate email is required"
	}
	if exp := req.Candidate.Expectations; exp.SalaryMax != 0 && exp.SalaryMin >= exp.SalaryMax {
		return "candidate salary range is incoherent (min >= max)"
	}
	if min, max := req.Company.Job.SalaryMin, req.Company.Job.SalaryMax; min != nil && max != nil && *min >= *max {
		return "company salary range is incoherent (min >= max)"
	}
	return ""
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
