package scoring

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/nextmatch/matching-engine/internal/domain"
)

var (
	experienceRangeRe = regexp.MustCompile(`(?i)(\d+)\s*(?:years?|ans?)?\s*-\s*(\d+)\s*(?:years?|ans?)`)
	experienceSingleRe = regexp.MustCompile(`(?i)(\d+)\s*(?:years?|ans?)`)
	durationYearsRe    = regexp.MustCompile(`(?i)(\d+)\s*(?:years?|ans?)`)
	durationMonthsRe   = regexp.MustCompile(`(?i)(\d+)\s*(?:months?|mois)`)
)

var progressionKeywords = []string{"senior", "lead", "chief", "manager", "director"}

// ExperienceScorer measures seniority fit between candidate tenure and a
// job's stated experience requirement.
type ExperienceScorer struct{}

// NewExperienceScorer builds an ExperienceScorer.
func NewExperienceScorer() *ExperienceScorer { return &ExperienceScorer{} }

// Name implements domain.Scorer.
func (s *ExperienceScorer) Name() string { return "experience" }

// Score implements domain.Scorer.
func (s *ExperienceScorer) Score(_ domain.Context, candidate domain.CandidateProfile, company domain.CompanyProfile) (result domain.ScoringResult) {
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

	expMin, expMax := parseExperienceRequired(company.Requirements.ExperienceRequired)
	years := candidateYears(candidate.ExperienceLevel, candidate.Experiences)

	base := baseMatch(years, expMin, expMax)
	quality := qualityScore(candidate.Experiences, company)
	progression := progressionScore(candidate.Experiences)

	score := clamp01(0.70*base + 0.20*quality + 0.10*progression)

	confidence := 0.7
	if base >= 0.8 {
		confidence = 0.9
	}

	return domain.ScoringResult{
		Score:      score,
		Confidence: confidence,
		Details: map[string]any{
			"candidateYears":   years,
			"experienceMin":    expMin,
			"experienceMax":    expMax,
			"baseScore":        base,
			"qualityScore":     quality,
			"progressionScore": progression,
			"verdict":          adequacyVerdict(years, expMin, expMax),
		},
		ProcessingTimeMs: elapsedMs(start),
	}
}

// parseExperienceRequired implements §4.4's free-form range parsing.
func parseExperienceRequired(raw string) (int, int) {
	if m := experienceRangeRe.FindStringSubmatch(raw); m != nil {
		lo, errLo := strconv.Atoi(m[1])
		hi, errHi := strconv.Atoi(m[2])
		if errLo == nil && errHi == nil {
			if lo > hi {
				lo, hi = hi, lo
			}
			return lo, hi
		}
	}
	if m := experienceSingleRe.FindStringSubmatch(raw); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return n, n + 2
		}
	}
	return 2, 10
}

// candidateYears implements §4.4's candidate-years derivation.
func candidateYears(level domain.ExperienceLevel, experiences []domain.Experience) float64 {
	base := levelBaseYears(level)

	sum := 0.0
	any := false
	for _, e := range experiences {
		if y, ok := parseDurationYears(e.Duration); ok {
			sum += y
			any = true
		}
	}
	if !any {
		return base
	}
	cap := base + 2
	if sum > cap {
		return cap
	}
	return sum
}

func levelBaseYears(level domain.ExperienceLevel) float64 {
	switch level {
	case domain.Entry:
		return 1
	case domain.Junior:
		return 3
	case domain.Confirmed:
		return 7
	case domain.Senior:
		return 12
	default:
		return 3
	}
}

func parseDurationYears(s string) (float64, bool) {
	if m := durationYearsRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return float64(n), true
		}
	}
	if m := durationMonthsRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return float64(n) / 12.0, true
		}
	}
	return 0, false
}

// baseMatch implements §4.4's base match sub-score.
func baseMatch(years float64, expMin, expMax int) float64 {
	if years >= float64(expMin) && years <= float64(expMax) {
		return 1.0
	}
	if years < float64(expMin) {
		gap := float64(expMin) - years
		switch {
		case gap <= 1:
			return 0.8
		case gap <= 2:
			return 0.6
		default:
			if expMin == 0 {
				return 0.2
			}
			v := 1 - gap/float64(expMin)
			if v < 0.2 {
				return 0.2
			}
			return v
		}
	}
	excess := years - float64(expMax)
	switch {
	case excess <= 2:
		return 0.9
	case excess <= 5:
		return 0.7
	default:
		return 0.5
	}
}

// qualityScore implements §4.4's quality sub-score.
func qualityScore(experiences []domain.Experience, company domain.CompanyProfile) float64 {
	titleTokens := tokenSet(company.Job.Title)
	mandatory := company.Requirements.MandatoryCompetences

	total := 0.0
	for _, e := range experiences {
		if containsFold(e.Company, company.Company.Sector) {
			total += 0.3
		}
		if overlapsAny(tokenSet(e.Title), titleTokens) {
			total += 0.2
		}
		if len(mandatory) > 0 && len(e.SkillsAcquired) > 0 {
			total += overlapRatio(e.SkillsAcquired, mandatory) * 0.3
		}
	}
	return clamp01(total)
}

// progressionScore implements §4.4's progression sub-score.
func progressionScore(experiences []domain.Experience) float64 {
	if len(experiences) < 2 {
		return 0.5
	}
	for _, e := range experiences {
		lower := tokenSet(e.Title)
		for _, kw := range progressionKeywords {
			if _, ok := lower[kw]; ok {
				return 0.8
			}
		}
	}
	return 0.5
}

func adequacyVerdict(years float64, expMin, expMax int) string {
	switch {
	case years < float64(expMin):
		return "below requirement"
	case years > float64(expMax):
		return "overqualified"
	default:
		return "meets requirement"
	}
}
