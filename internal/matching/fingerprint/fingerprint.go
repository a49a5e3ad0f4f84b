// Package fingerprint derives deterministic cache keys from candidate and
// company profiles, stable under reordering of the set-typed fields and
// excluding mutable timestamps and per-request knobs that don't affect
// the output.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nextmatch/matching-engine/internal/domain"
)

// sortedSet renders a map[string]struct{} as a stable, sorted, comma
// joined string.
func sortedSet(m map[string]struct{}) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

// sortedContractSet sorts a map[domain.ContractKind]struct{}.
func sortedContractSet(m map[domain.ContractKind]struct{}) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

// sortedLangMap renders a map[string]string (e.g. language -> level) as a
// stable "k=v" list joined in sorted key order.
func sortedLangMap(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+m[k])
	}
	return strings.Join(parts, ",")
}

func intPtr(p *int) string {
	if p == nil {
		return "nil"
	}
	return strconv.Itoa(*p)
}

// candidateStableString builds a deterministic serialization of a
// CandidateProfile, deliberately omitting ParsedAt (mutable timestamp)
// and ParseConfidence (doesn't change scoring semantics, only provenance).
func candidateStableString(c domain.CandidateProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "personal|%s|%s|%s|%s|%s", c.Personal.FirstName, c.Personal.LastName, c.Personal.Email, c.Personal.Phone, intPtr(c.Personal.Age))
	fmt.Fprintf(&b, "|level|%s", c.ExperienceLevel)

	b.WriteString("|experiences[")
	for _, e := range c.Experiences {
		fmt.Fprintf(&b, "(%s|%s|%s|%s|%s)", e.Title, e.Company, e.Duration, e.Description, sortedSet(e.SkillsAcquired))
	}
	b.WriteString("]")

	fmt.Fprintf(&b, "|skills|tech=%s|soft=%s|lang=%s|cert=%s",
		sortedSet(c.Skills.Technical), sortedSet(c.Skills.Software), sortedLangMap(c.Skills.Languages), sortedSet(c.Skills.Certifications))

	fmt.Fprintf(&b, "|expect|salary=%d-%d|loc=%s|maxdist=%d|remote=%t|sectors=%s|contracts=%s",
		c.Expectations.SalaryMin, c.Expectations.SalaryMax, c.Expectations.PreferredLocation,
		c.Expectations.MaxDistanceKm, c.Expectations.RemoteAccepted,
		sortedSet(c.Expectations.PreferredSectors), sortedContractSet(c.Expectations.AcceptedContracts))

	sortedMotivations := append([]string(nil), c.Motivation.PrimaryMotivations...)
	sort.Strings(sortedMotivations)
	fmt.Fprintf(&b, "|motivation|reason=%s|primary=%s", c.Motivation.ListeningReason, strings.Join(sortedMotivations, ","))

	return b.String()
}

// companyStableString builds a deterministic serialization of a
// CompanyProfile, omitting ParsedAt and ParseConfidence for the same
// reason as candidateStableString.
func companyStableString(c domain.CompanyProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "company|%s|%s|%s|%s|%s|%s", c.Company.Name, c.Company.Sector, c.Company.Location, c.Company.Size, c.Company.Description, c.Company.Website)

	sortedMissions := append([]string(nil), c.Job.PrimaryMissions...)
	sort.Strings(sortedMissions)
	fmt.Fprintf(&b, "|job|%s|%s|%s|%s|salary=%s-%s|missions=%s|required=%s",
		c.Job.Title, c.Job.Location, c.Job.ContractKind, c.Job.Description,
		intPtr(c.Job.SalaryMin), intPtr(c.Job.SalaryMax),
		strings.Join(sortedMissions, ","), sortedSet(c.Job.RequiredCompetences))

	fmt.Fprintf(&b, "|requirements|exp=%s|mandatory=%s|desired=%s|languages=%s|education=%s",
		c.Requirements.ExperienceRequired, sortedSet(c.Requirements.MandatoryCompetences),
		sortedSet(c.Requirements.DesiredCompetences), sortedLangMap(c.Requirements.RequiredLanguages),
		sortedSet(c.Requirements.RequiredEducation))

	fmt.Fprintf(&b, "|conditions|remote=%t|hours=%s|benefits=%s|env=%s",
		c.WorkConditions.RemotePossible, c.WorkConditions.Hours,
		sortedSet(c.WorkConditions.Benefits), c.WorkConditions.Environment)

	sortedPriority := append([]string(nil), c.Hiring.PriorityCriteria...)
	sort.Strings(sortedPriority)
	fmt.Fprintf(&b, "|hiring|urgency=%s|priority=%s|eliminatory=%s|openings=%d",
		c.Hiring.Urgency, strings.Join(sortedPriority, ","), sortedSet(c.Hiring.EliminatoryCriteria), c.Hiring.Openings)

	return b.String()
}

func hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// Candidate returns a deterministic fingerprint of a CandidateProfile.
func Candidate(c domain.CandidateProfile) string {
	return hash(candidateStableString(c))
}

// Company returns a deterministic fingerprint of a CompanyProfile.
func Company(c domain.CompanyProfile) string {
	return hash(companyStableString(c))
}

// MatchKey returns the cache key for one (candidate, company) pair, in
// the form "match_<candidateFP>_<companyFP>". forceAdaptive and
// deadlineMs are deliberately not part of the key: they don't change the
// output, they change whether the cache is consulted at all.
func MatchKey(candidate domain.CandidateProfile, company domain.CompanyProfile) string {
	return fmt.Sprintf("match_%s_%s", Candidate(candidate), Company(company))
}
