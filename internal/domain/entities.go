// Package domain defines the core entities, ports, and domain-specific
// errors of the matching engine. It has no dependency on any adapter
// package and no I/O.
package domain

import (
	"context"
	"errors"
	"time"
)

// Context is a type alias to stdlib context.Context, kept so the domain
// package reads self-contained without importing "context" everywhere
// it's used in this file's signatures.
type Context = context.Context

// Error taxonomy (sentinels). See §7 of SPEC_FULL.md: these are used by
// the surrounding HTTP/validation/cache layers. Match itself never
// returns one of these from its result type — failures are folded into
// the MatchingResponse per the propagation policy.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrRateLimited     = errors.New("rate limited")
	ErrUpstreamTimeout = errors.New("upstream timeout")
	ErrInternal        = errors.New("internal error")
)

// ListeningReason is the candidate's self-declared reason for
// considering a move. Closed enumeration, §3.
type ListeningReason string

// Closed set of listening reasons.
const (
	SalaryTooLow      ListeningReason = "SALARY_TOO_LOW"
	RoleMismatch      ListeningReason = "ROLE_MISMATCH"
	LocationTooFar    ListeningReason = "LOCATION_TOO_FAR"
	LackOfFlexibility ListeningReason = "LACK_OF_FLEXIBILITY"
	LackOfProspects   ListeningReason = "LACK_OF_PROSPECTS"
)

// Valid reports whether r is one of the closed ListeningReason values.
func (r ListeningReason) Valid() bool {
	switch r {
	case SalaryTooLow, RoleMismatch, LocationTooFar, LackOfFlexibility, LackOfProspects:
		return true
	}
	return false
}

// HiringUrgency is the employer's timeline; drives the company-side
// tolerance boost. Closed enumeration, §3.
type HiringUrgency string

// Closed set of hiring urgency values.
const (
	Critical HiringUrgency = "CRITICAL"
	Urgent   HiringUrgency = "URGENT"
	Normal   HiringUrgency = "NORMAL"
	LongTerm HiringUrgency = "LONG_TERM"
)

// Valid reports whether u is one of the closed HiringUrgency values.
func (u HiringUrgency) Valid() bool {
	switch u {
	case Critical, Urgent, Normal, LongTerm:
		return true
	}
	return false
}

// ContractKind is a closed set of four contract types. No other value
// is valid; an adapter must map or reject anything else at its
// boundary (Open Question, §8 P7).
type ContractKind string

// Closed set of contract kinds.
const (
	Permanent ContractKind = "PERMANENT"
	FixedTerm ContractKind = "FIXED_TERM"
	Freelance ContractKind = "FREELANCE"
	Interim   ContractKind = "INTERIM"
)

// Valid reports whether k is one of the four closed ContractKind values.
func (k ContractKind) Valid() bool {
	switch k {
	case Permanent, FixedTerm, Freelance, Interim:
		return true
	}
	return false
}

// ExperienceLevel is the candidate's declared seniority band.
type ExperienceLevel string

// Closed set of experience levels.
const (
	Entry     ExperienceLevel = "ENTRY"
	Junior    ExperienceLevel = "JUNIOR"
	Confirmed ExperienceLevel = "CONFIRMED"
	Senior    ExperienceLevel = "SENIOR"
)

// Compatibility is the qualitative label derived from finalScore (§4.8).
type Compatibility string

// Closed set of compatibility bands, ordered worst to best. Ordinal()
// gives the monotone ordering used by property P3.
const (
	Incompatible Compatibility = "INCOMPATIBLE"
	Poor         Compatibility = "POOR"
	Average      Compatibility = "AVERAGE"
	Good         Compatibility = "GOOD"
	Excellent    Compatibility = "EXCELLENT"
)

// Ordinal returns the band's rank, 0 (INCOMPATIBLE) through 4 (EXCELLENT).
func (c Compatibility) Ordinal() int {
	switch c {
	case Poor:
		return 1
	case Average:
		return 2
	case Good:
		return 3
	case Excellent:
		return 4
	default:
		return 0
	}
}

// SuccessOutlook is a supplemental, deterministic coarse prediction
// label (SPEC_FULL §D.1), derived purely from finalScore and confidence.
type SuccessOutlook string

// Closed set of success outlook labels.
const (
	OutlookLikely    SuccessOutlook = "LIKELY"
	OutlookUncertain SuccessOutlook = "UNCERTAIN"
	OutlookUnlikely  SuccessOutlook = "UNLIKELY"
)

// PersonalInfo holds the candidate's identifying details (§3).
type PersonalInfo struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Age       *int
}

// Experience is one entry in the candidate's chronological work history.
type Experience struct {
	Title          string
	Company        string
	Duration       string
	Description    string
	SkillsAcquired map[string]struct{}
}

// Skills groups every skill-shaped field on a candidate.
type Skills struct {
	Technical      map[string]struct{}
	Software       map[string]struct{}
	Languages      map[string]string // language -> proficiency
	Certifications map[string]struct{}
}

// Expectations is the candidate's search criteria.
type Expectations struct {
	SalaryMin         int
	SalaryMax         int
	PreferredLocation string
	MaxDistanceKm     int
	RemoteAccepted    bool
	PreferredSectors  map[string]struct{}
	AcceptedContracts map[ContractKind]struct{}
}

// Motivation captures why the candidate is looking and what matters to them.
type Motivation struct {
	ListeningReason    ListeningReason
	PrimaryMotivations []string
}

// CandidateProfile is the canonical candidate data shape consumed by
// the scorers (§3). It is treated as immutable by every scorer.
type CandidateProfile struct {
	Personal        PersonalInfo
	ExperienceLevel ExperienceLevel
	Experiences     []Experience
	Skills          Skills
	Expectations    Expectations
	Motivation      Motivation
	ParseConfidence float64
	Source          string
	ParsedAt        time.Time
}

// CompanyInfo describes the employing organization.
type CompanyInfo struct {
	Name        string
	Sector      string
	Location    string
	Size        string
	Description string
	Website     string
}

// Job describes the opening itself.
type Job struct {
	Title               string
	Location            string
	ContractKind        ContractKind
	SalaryMin           *int
	SalaryMax           *int
	Description         string
	PrimaryMissions     []string
	RequiredCompetences map[string]struct{}
}

// Requirements is what the job formally asks for.
type Requirements struct {
	ExperienceRequired   string
	MandatoryCompetences map[string]struct{}
	DesiredCompetences   map[string]struct{}
	RequiredLanguages    map[string]string
	RequiredEducation    map[string]struct{}
}

// WorkConditions describes the working arrangement offered.
type WorkConditions struct {
	RemotePossible bool
	Hours          string
	Benefits       map[string]struct{}
	Environment    string
}

// Hiring describes the employer's recruitment stance.
type Hiring struct {
	Urgency             HiringUrgency
	PriorityCriteria    []string
	EliminatoryCriteria map[string]struct{}
	Openings            int
}

// CompanyProfile is the canonical company/job data shape consumed by
// the scorers (§3). It is treated as immutable by every scorer.
type CompanyProfile struct {
	Company         CompanyInfo
	Job             Job
	Requirements    Requirements
	WorkConditions  WorkConditions
	Hiring          Hiring
	ParseConfidence float64
	Source          string
	ParsedAt        time.Time
}

// WeightVector is a normalized weighting over the four scoring
// components. Invariant: sums to 1.0 ± 0.01 (§3, tested as P1).
type WeightVector struct {
	Semantic   float64
	Salary     float64
	Experience float64
	Location   float64
}

// Sum returns the sum of the four components.
func (w WeightVector) Sum() float64 {
	return w.Semantic + w.Salary + w.Experience + w.Location
}

// ScoringResult is what every scorer returns (§4.1).
type ScoringResult struct {
	Score            float64
	Confidence       float64
	Details          map[string]any
	ProcessingTimeMs float64
	Error            string
}

// Scorer is the contract every scorer implements (§4.1 C2). Determinism:
// identical inputs yield identical Score/Confidence/Details modulo
// ProcessingTimeMs. Totality: never panics out of contract; on internal
// failure returns a zero ScoringResult carrying Error.
type Scorer interface {
	// Name identifies the component for aggregation/logging ("semantic",
	// "salary", "experience", "location").
	Name() string
	// Score computes the result for one (candidate, company) pair.
	// Implementations must respect ctx cancellation where they perform
	// I/O (Location only, per §5); CPU-only scorers may ignore ctx.
	Score(ctx Context, candidate CandidateProfile, company CompanyProfile) ScoringResult
}

// WeightingResult is the output of the adaptive weighting engine (§4.6).
type WeightingResult struct {
	CandidateWeights   WeightVector
	CompanyWeights     WeightVector
	ListeningReason    ListeningReason
	Urgency            HiringUrgency
	ReasoningCandidate string
	ReasoningCompany   string
}

// ComponentResults holds the four scorer outputs keyed by component name.
type ComponentResults struct {
	Semantic   ScoringResult
	Salary     ScoringResult
	Experience ScoringResult
	Location   ScoringResult
}

// Get returns the result for a named component ("semantic", "salary",
// "experience", "location"), or a zero ScoringResult if unknown.
func (c ComponentResults) Get(name string) ScoringResult {
	switch name {
	case "semantic":
		return c.Semantic
	case "salary":
		return c.Salary
	case "experience":
		return c.Experience
	case "location":
		return c.Location
	default:
		return ScoringResult{}
	}
}

// MatchingResponse is the full result of one Match operation (§3).
type MatchingResponse struct {
	FinalScore               float64
	Confidence               float64
	Compatibility            Compatibility
	SuccessOutlook           SuccessOutlook
	Components               ComponentResults
	Weighting                WeightingResult
	RecommendationsCandidate []string
	RecommendationsCompany   []string
	Strengths                []string
	Attention                []string
	ProcessingTimeMs         float64
	Cached                   bool
}

// MatchingRequest is the input to the primary Match operation (§6).
// CandidateID/CompanyID let a caller reference a profile persisted
// through ProfileStore instead of inlining the full payload; when set,
// they take precedence over the inline Candidate/Company fields.
type MatchingRequest struct {
	Candidate     CandidateProfile
	Company       CompanyProfile
	CandidateID   string
	CompanyID     string
	ForceAdaptive bool
	DeadlineMs    int
}

// ProfileStore is the opt-in durable store for candidate/company
// profiles referenced by ID (SPEC_FULL §C). Not required for the core
// matching operation, which accepts inline payloads.
type ProfileStore interface {
	SaveCandidate(ctx Context, id string, p CandidateProfile) error
	GetCandidate(ctx Context, id string) (CandidateProfile, error)
	SaveCompany(ctx Context, id string, p CompanyProfile) error
	GetCompany(ctx Context, id string) (CompanyProfile, error)
}

// GeoEstimate is the result of a Geo Service estimate call (§6).
type GeoEstimate struct {
	TravelScore float64
	Reachable   bool
	Details     map[string]any
}

// TransportMode is one of the travel modes the Geo Service can be asked
// to evaluate (§6).
type TransportMode string

// Closed set of transport modes.
const (
	Car             TransportMode = "CAR"
	PublicTransport TransportMode = "PUBLIC_TRANSPORT"
	Bike            TransportMode = "BIKE"
	Walk            TransportMode = "WALK"
)

// GeoRequest is the input to the Geo Service collaborator interface (§6).
type GeoRequest struct {
	OriginHint       string
	DestinationHint  string
	MaxDistanceKm    int
	TransportModes   map[TransportMode]struct{}
	MaxTravelMinutes map[TransportMode]int
}

// GeoService is the optional collaborator the Location scorer may
// delegate to (§6, C11). Implementations must be stateless from the
// engine's perspective.
type GeoService interface {
	Estimate(ctx Context, req GeoRequest) (GeoEstimate, error)
}

// AIClient is an optional collaborator the semantic scorer may delegate
// to for a vector-similarity booster on top of its substring/synonym
// matching. Embed must be deterministic: repeated calls with the same
// text must return the same vector, since scoring determinism is
// required end to end.
type AIClient interface {
	Embed(ctx Context, text string) ([]float64, error)
}

// Cache is the port the orchestrator uses for the TTL-bounded result
// cache (§4.9). Implementations: an in-memory store (default) and a
// Redis-backed store for multi-replica deployments.
type Cache interface {
	Get(ctx Context, key string) (MatchingResponse, bool, error)
	Set(ctx Context, key string, resp MatchingResponse) error
	Clear(ctx Context) error
	Size(ctx Context) (int, error)
}

// CacheStats exposes observability counters for the result cache (§4.9).
type CacheStats struct {
	Size         int
	Hits         int64
	TotalLookups int64
}
