package scoring

import (
	"fmt"
	"time"

	"github.com/nextmatch/matching-engine/internal/domain"
	"github.com/nextmatch/matching-engine/internal/matching/tables"
)

// SemanticScorer measures skill, title, sector, and tooling alignment
// between a candidate and a job.
type SemanticScorer struct {
	synonyms *tables.Synonyms
	embedder domain.AIClient
}

// NewSemanticScorer builds a SemanticScorer backed by syn. syn may be
// nil, in which case synonym-based matching is skipped and only direct
// substring matches count. No embedding booster is used; call
// WithEmbedder to enable one.
func NewSemanticScorer(syn *tables.Synonyms) *SemanticScorer {
	return &SemanticScorer{synonyms: syn}
}

// WithEmbedder attaches an AIClient used as a secondary similarity
// signal on top of substring/synonym matching, and returns the scorer
// for chaining.
func (s *SemanticScorer) WithEmbedder(embedder domain.AIClient) *SemanticScorer {
	s.embedder = embedder
	return s
}

// Name implements domain.Scorer.
func (s *SemanticScorer) Name() string { return "semantic" }

// Score implements domain.Scorer.
func (s *SemanticScorer) Score(_ domain.Context, candidate domain.CandidateProfile, company domain.CompanyProfile) (result domain.ScoringResult) {
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

	required := mergeSets(company.Requirements.MandatoryCompetences, company.Requirements.DesiredCompetences)
	competenceScore, matched, missing := s.competenceMatch(required, candidate.Skills.Technical)
	titleScore := titleMatch(candidate.Experiences, company.Job.Title)
	sectorScore := sectorMatch(candidate.Expectations.PreferredSectors, company.Company.Sector)
	toolScore := toolMatch(required, candidate.Skills.Software)

	// descriptionOverlap and embeddingBoost are secondary signals, not
	// named sub-scores of §4.2. They only ever refine competenceScore
	// and titleScore with a genuine, data-backed reading (ok=true); when
	// there is nothing to compare they report ok=false and leave the
	// §4.2 sub-score untouched, so they can never act as a constant
	// floor on an otherwise-zero match.
	if len(required) > 0 {
		if embeddingScore, ok := embeddingBoost(s.embedder, candidate, company); ok {
			competenceScore = clamp01(0.85*competenceScore + 0.15*embeddingScore)
		}
	}
	if descriptionScore, ok := descriptionOverlap(candidate.Experiences, company.Job.Description); ok && descriptionScore > titleScore {
		titleScore = descriptionScore
	}

	score := 0.40*competenceScore + 0.30*titleScore + 0.20*sectorScore + 0.10*toolScore
	score = clamp01(score)

	return domain.ScoringResult{
		Score:      score,
		Confidence: clamp01(min95(score * 1.1)),
		Details: map[string]any{
			"competenceScore":    competenceScore,
			"titleScore":         titleScore,
			"sectorScore":        sectorScore,
			"toolScore":          toolScore,
			"matchedCompetences": matched,
			"missingCompetences": missing,
		},
		ProcessingTimeMs: elapsedMs(start),
	}
}

// descriptionOverlap measures token overlap between the job description
// and each candidate experience's description, keeping the best match.
// Both sides are budgeted before tokenizing so a pathologically long
// description cannot blow up scoring latency. ok is false (not a
// neutral score) when there is no description text to compare on either
// side.
func descriptionOverlap(experiences []domain.Experience, jobDescription string) (score float64, ok bool) {
	jobDescription = budgetDescription(jobDescription)
	jobTokens := tokenSet(jobDescription)
	if len(jobTokens) == 0 {
		return 0, false
	}

	best := 0.0
	found := false
	for _, e := range experiences {
		if e.Description == "" {
			continue
		}
		found = true
		expTokens := tokenSet(budgetDescription(e.Description))
		if r := overlapRatio(expTokens, jobTokens); r > best {
			best = r
		}
	}
	return best, found
}

func min95(v float64) float64 {
	if v > 0.95 {
		return 0.95
	}
	return v
}

func mergeSets(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

// competenceMatch implements §4.2's competence match: a required
// competence counts as matched if it equals (case-insensitive,
// substring-either-way) any candidate technical skill, or shares a
// canonical concept key via the synonym table.
func (s *SemanticScorer) competenceMatch(required map[string]struct{}, technical map[string]struct{}) (score float64, matched, missing []string) {
	if len(required) == 0 {
		return 1.0, nil, nil
	}

	var matchedCount int
	for req := range required {
		if s.isCompetenceMatched(req, technical) {
			matchedCount++
			matched = append(matched, req)
		} else {
			missing = append(missing, req)
		}
	}

	return float64(matchedCount) / float64(len(required)), sortStrings(matched), sortStrings(missing)
}

func (s *SemanticScorer) isCompetenceMatched(req string, technical map[string]struct{}) bool {
	var reqCanon string
	var reqOk bool
	if s.synonyms != nil {
		reqCanon, reqOk = s.synonyms.Canonicalize(req)
	}

	for skill := range technical {
		if substringEitherWay(req, skill) {
			return true
		}
		if reqOk && s.synonyms != nil {
			if skillCanon, ok := s.synonyms.Canonicalize(skill); ok && skillCanon == reqCanon {
				return true
			}
		}
	}
	return false
}

// titleMatch implements §4.2's title match.
func titleMatch(experiences []domain.Experience, jobTitle string) float64 {
	if len(experiences) == 0 {
		return 0.5
	}
	titleTokens := tokenSet(jobTitle)
	best := 0.0
	for _, e := range experiences {
		r := overlapRatio(tokenSet(e.Title), titleTokens)
		if r > best {
			best = r
		}
	}
	return best
}

// sectorMatch implements §4.2's sector match.
func sectorMatch(preferredSectors map[string]struct{}, jobSector string) float64 {
	if len(preferredSectors) == 0 {
		return 0.7
	}
	for sector := range preferredSectors {
		if substringEitherWay(sector, jobSector) {
			return 1.0
		}
	}
	return 0.3
}

// toolMatch implements §4.2's tool match: a required competence counts
// as matched if any candidate software string is a substring of it.
func toolMatch(required map[string]struct{}, software map[string]struct{}) float64 {
	if len(required) == 0 {
		return 1.0
	}
	matched := 0
	for req := range required {
		for sw := range software {
			if containsFold(req, sw) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(required))
}

func sortStrings(in []string) []string {
	out := append([]string(nil), in...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
