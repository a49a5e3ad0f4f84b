// Package recommend synthesizes the deterministic, preset-sentence
// recommendation lists described in §4.10: strengths, attention points,
// and candidate/company recommendations drawn from fixed tables keyed
// on component and listening reason, plus urgency-driven additions.
package recommend

import "github.com/nextmatch/matching-engine/internal/domain"

var componentOrder = []string{"semantic", "salary", "experience", "location"}

var strengthSentences = map[string]string{
	"semantic":   "Excellent skill fit",
	"salary":     "Perfectly calibrated salary",
	"experience": "Ideal experience level",
	"location":   "Ideal geographic location",
}

var attentionSentences = map[string]string{
	"semantic":   "Limited skill overlap with job requirements",
	"salary":     "Salary expectations misaligned",
	"experience": "Experience level does not match requirements",
	"location":   "Geographic mismatch",
}

type recommendationPair struct {
	candidate string
	company   string
}

// recommendationTable is keyed first on component, then on the
// candidate's listening reason; an entry fires when that component's
// score falls below the attention threshold (§4.10).
var recommendationTable = map[string]map[domain.ListeningReason]recommendationPair{
	"semantic": {
		domain.SalaryTooLow:      {"Highlight transferable skills relevant to this role", "Provide ramp-up time for skill gaps"},
		domain.RoleMismatch:      {"Reconsider roles closer to your core skill set", "Offer a structured onboarding/training program"},
		domain.LocationTooFar:    {"Emphasize remote-relevant skills in your profile", "Expect a longer ramp-up period for this candidate"},
		domain.LackOfFlexibility: {"Clarify which skills you're open to developing", "Plan a mentoring period to close the skill gap"},
		domain.LackOfProspects:   {"Pursue certifications to close the skill gap", "Invest in a learning plan for this candidate"},
	},
	"salary": {
		domain.SalaryTooLow:      {"Clarify your minimum acceptable package", "Consider additional budget or compensatory benefits"},
		domain.RoleMismatch:      {"Reassess expectations for this role's market band", "Explain the full compensation package, not just base salary"},
		domain.LocationTooFar:    {"Factor commuting costs into your expectations", "Offer a relocation or transport allowance"},
		domain.LackOfFlexibility: {"Weigh flexible benefits against base salary", "Highlight non-salary flexibility benefits"},
		domain.LackOfProspects:   {"Balance salary against long-term growth potential", "Outline a clear salary progression path"},
	},
	"experience": {
		domain.SalaryTooLow:      {"Highlight experience that justifies your salary target", "Consider a trial period to validate fit"},
		domain.RoleMismatch:      {"Seek a role matching your actual experience band", "Offer a training/accompaniment plan"},
		domain.LocationTooFar:    {"Detail remote-work experience if relevant", "Allow extra onboarding time"},
		domain.LackOfFlexibility: {"Clarify how your experience maps to this role", "Plan a structured integration period"},
		domain.LackOfProspects:   {"Frame past experience around your growth trajectory", "Define a growth path matching the candidate's experience"},
	},
	"location": {
		domain.SalaryTooLow:      {"Consider whether relocation changes your calculus", "Offer remote or hybrid arrangements"},
		domain.RoleMismatch:      {"Confirm commute expectations before proceeding", "Clarify on-site requirements upfront"},
		domain.LocationTooFar:    {"Reassess your maximum acceptable commute distance", "Offer remote or hybrid work arrangements"},
		domain.LackOfFlexibility: {"Clarify your remote-work requirements", "Offer a hybrid work arrangement"},
		domain.LackOfProspects:   {"Weigh location against career growth potential", "Highlight growth opportunities despite the location"},
	},
}

const attentionThreshold = 0.5
const strengthThreshold = 0.8

// Synthesizer builds the four recommendation lists for one matching
// result. It holds no state and performs no I/O.
type Synthesizer struct{}

// NewSynthesizer builds a Synthesizer.
func NewSynthesizer() *Synthesizer { return &Synthesizer{} }

// Synthesize returns, in order, the candidate recommendations, company
// recommendations, strengths, and attention points for one match.
func (s *Synthesizer) Synthesize(components domain.ComponentResults, weighting domain.WeightingResult) (recommendationsCandidate, recommendationsCompany, strengths, attention []string) {
	for _, name := range componentOrder {
		r := components.Get(name)

		if r.Score >= strengthThreshold {
			strengths = append(strengths, strengthSentences[name])
		}
		if r.Score < attentionThreshold {
			attention = append(attention, attentionSentences[name])
			if pair, ok := recommendationTable[name][weighting.ListeningReason]; ok {
				recommendationsCandidate = append(recommendationsCandidate, pair.candidate)
				recommendationsCompany = append(recommendationsCompany, pair.company)
			}
		}
	}

	if weighting.Urgency == domain.Critical {
		recommendationsCompany = append(recommendationsCompany, "Accelerate the recruitment process")
		recommendationsCandidate = append(recommendationsCandidate, "Rapid availability is valued")
	}

	return recommendationsCandidate, recommendationsCompany, strengths, attention
}
