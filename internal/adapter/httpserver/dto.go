// Package httpserver contains HTTP handlers and middleware for the
// matching engine's REST API.
package httpserver

import (
	"fmt"

	"github.com/nextmatch/matching-engine/internal/domain"
	"github.com/nextmatch/matching-engine/pkg/textx"
)

// personalDTO is the wire shape of domain.PersonalInfo.
type personalDTO struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Age       *int   `json:"age,omitempty" validate:"omitempty,gte=16,lte=100"`
}

type experienceDTO struct {
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Duration       string   `json:"duration"`
	Description    string   `json:"description"`
	SkillsAcquired []string `json:"skillsAcquired,omitempty"`
}

type skillsDTO struct {
	Technical      []string          `json:"technical,omitempty"`
	Software       []string          `json:"software,omitempty"`
	Languages      map[string]string `json:"languages,omitempty"`
	Certifications []string          `json:"certifications,omitempty"`
}

type expectationsDTO struct {
	SalaryMin         int      `json:"salaryMin" validate:"gte=0"`
	SalaryMax         int      `json:"salaryMax" validate:"gte=0"`
	PreferredLocation string   `json:"preferredLocation"`
	MaxDistanceKm     int      `json:"maxDistanceKm"`
	RemoteAccepted    bool     `json:"remoteAccepted"`
	PreferredSectors  []string `json:"preferredSectors,omitempty"`
	AcceptedContracts []string `json:"acceptedContracts,omitempty" validate:"dive,oneof=PERMANENT FIXED_TERM FREELANCE INTERIM"`
}

type motivationDTO struct {
	ListeningReason    string   `json:"listeningReason" validate:"required,oneof=SALARY_TOO_LOW ROLE_MISMATCH LOCATION_TOO_FAR LACK_OF_FLEXIBILITY LACK_OF_PROSPECTS"`
	PrimaryMotivations []string `json:"primaryMotivations,omitempty"`
}

// candidateDTO is the wire shape of domain.CandidateProfile.
type candidateDTO struct {
	Personal        personalDTO     `json:"personal" validate:"required"`
	ExperienceLevel string          `json:"experienceLevel" validate:"required,oneof=ENTRY JUNIOR CONFIRMED SENIOR"`
	Experiences     []experienceDTO `json:"experiences,omitempty"`
	Skills          skillsDTO       `json:"skills"`
	Expectations    expectationsDTO `json:"expectations" validate:"required"`
	Motivation      motivationDTO   `json:"motivation" validate:"required"`
}

type jobDTO struct {
	Title               string   `json:"title"`
	Location            string   `json:"location"`
	ContractKind        string   `json:"contractKind" validate:"required,oneof=PERMANENT FIXED_TERM FREELANCE INTERIM"`
	SalaryMin           *int     `json:"salaryMin,omitempty"`
	SalaryMax           *int     `json:"salaryMax,omitempty"`
	Description         string   `json:"description"`
	PrimaryMissions     []string `json:"primaryMissions,omitempty"`
	RequiredCompetences []string `json:"requiredCompetences,omitempty"`
}

type requirementsDTO struct {
	ExperienceRequired   string            `json:"experienceRequired"`
	MandatoryCompetences []string          `json:"mandatoryCompetences,omitempty"`
	DesiredCompetences   []string          `json:"desiredCompetences,omitempty"`
	RequiredLanguages    map[string]string `json:"requiredLanguages,omitempty"`
	RequiredEducation    []string          `json:"requiredEducation,omitempty"`
}

type workConditionsDTO struct {
	RemotePossible bool     `json:"remotePossible"`
	Hours          string   `json:"hours"`
	Benefits       []string `json:"benefits,omitempty"`
	Environment    string   `json:"environment"`
}

type hiringDTO struct {
	Urgency             string   `json:"urgency" validate:"required,oneof=CRITICAL URGENT NORMAL LONG_TERM"`
	PriorityCriteria    []string `json:"priorityCriteria,omitempty"`
	EliminatoryCriteria []string `json:"eliminatoryCriteria,omitempty"`
	Openings            int      `json:"openings"`
}

type companyInfoDTO struct {
	Name        string `json:"name"`
	Sector      string `json:"sector"`
	Location    string `json:"location"`
	Size        string `json:"size"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

// companyDTO is the wire shape of domain.CompanyProfile.
type companyDTO struct {
	Company        companyInfoDTO    `json:"company" validate:"required"`
	Job            jobDTO            `json:"job" validate:"required"`
	Requirements   requirementsDTO   `json:"requirements"`
	WorkConditions workConditionsDTO `json:"workConditions"`
	Hiring         hiringDTO         `json:"hiring" validate:"required"`
}

// matchRequestDTO is the wire shape of the POST /v1/match request body.
type matchRequestDTO struct {
	Candidate     candidateDTO `json:"candidate" validate:"required"`
	Company       companyDTO   `json:"company" validate:"required"`
	ForceAdaptive bool         `json:"forceAdaptive"`
	DeadlineMs    int          `json:"deadlineMs,omitempty" validate:"omitempty,gte=1"`
}

func stringSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}

func contractSet(values []string) map[domain.ContractKind]struct{} {
	if len(values) == 0 {
		return nil
	}
	out := make(map[domain.ContractKind]struct{}, len(values))
	for _, v := range values {
		out[domain.ContractKind(v)] = struct{}{}
	}
	return out
}

func (d matchRequestDTO) toDomain() domain.MatchingRequest {
	return domain.MatchingRequest{
		Candidate:     d.Candidate.toDomain(),
		Company:       d.Company.toDomain(),
		ForceAdaptive: d.ForceAdaptive,
		DeadlineMs:    d.DeadlineMs,
	}
}

func (d candidateDTO) toDomain() domain.CandidateProfile {
	experiences := make([]domain.Experience, 0, len(d.Experiences))
	for _, e := range d.Experiences {
		experiences = append(experiences, domain.Experience{
			Title:          e.Title,
			Company:        e.Company,
			Duration:       e.Duration,
			Description:    textx.SanitizeText(e.Description),
			SkillsAcquired: stringSet(e.SkillsAcquired),
		})
	}
	return domain.CandidateProfile{
		Personal: domain.PersonalInfo{
			FirstName: d.Personal.FirstName,
			LastName:  d.Personal.LastName,
			Email:     d.Personal.Email,
			Phone:     d.Personal.Phone,
			Age:       d.Personal.Age,
		},
		ExperienceLevel: domain.ExperienceLevel(d.ExperienceLevel),
		Experiences:     experiences,
		Skills: domain.Skills{
			Technical:      stringSet(d.Skills.Technical),
			Software:       stringSet(d.Skills.Software),
			Languages:      d.Skills.Languages,
			Certifications: stringSet(d.Skills.Certifications),
		},
		Expectations: domain.Expectations{
			SalaryMin:         d.Expectations.SalaryMin,
			SalaryMax:         d.Expectations.SalaryMax,
			PreferredLocation: d.Expectations.PreferredLocation,
			MaxDistanceKm:     d.Expectations.MaxDistanceKm,
			RemoteAccepted:    d.Expectations.RemoteAccepted,
			PreferredSectors:  stringSet(d.Expectations.PreferredSectors),
			AcceptedContracts: contractSet(d.Expectations.AcceptedContracts),
		},
		Motivation: domain.Motivation{
			ListeningReason:    domain.ListeningReason(d.Motivation.ListeningReason),
			PrimaryMotivations: d.Motivation.PrimaryMotivations,
		},
	}
}

func (d companyDTO) toDomain() domain.CompanyProfile {
	return domain.CompanyProfile{
		Company: domain.CompanyInfo{
			Name:        d.Company.Name,
			Sector:      d.Company.Sector,
			Location:    d.Company.Location,
			Size:        d.Company.Size,
			Description: textx.SanitizeText(d.Company.Description),
			Website:     d.Company.Website,
		},
		Job: domain.Job{
			Title:               d.Job.Title,
			Location:            d.Job.Location,
			ContractKind:        domain.ContractKind(d.Job.ContractKind),
			SalaryMin:           d.Job.SalaryMin,
			SalaryMax:           d.Job.SalaryMax,
			Description:         textx.SanitizeText(d.Job.Description),
			PrimaryMissions:     d.Job.PrimaryMissions,
			RequiredCompetences: stringSet(d.Job.RequiredCompetences),
		},
		Requirements: domain.Requirements{
			ExperienceRequired:   d.Requirements.ExperienceRequired,
			MandatoryCompetences: stringSet(d.Requirements.MandatoryCompetences),
			DesiredCompetences:   stringSet(d.Requirements.DesiredCompetences),
			RequiredLanguages:    d.Requirements.RequiredLanguages,
			RequiredEducation:    stringSet(d.Requirements.RequiredEducation),
		},
		WorkConditions: domain.WorkConditions{
			RemotePossible: d.WorkConditions.RemotePossible,
			Hours:          d.WorkConditions.Hours,
			Benefits:       stringSet(d.WorkConditions.Benefits),
			Environment:    d.WorkConditions.Environment,
		},
		Hiring: domain.Hiring{
			Urgency:             domain.HiringUrgency(d.Hiring.Urgency),
			PriorityCriteria:    d.Hiring.PriorityCriteria,
			EliminatoryCriteria: stringSet(d.Hiring.EliminatoryCriteria),
			Openings:            d.Hiring.Openings,
		},
	}
}

// componentResultDTO is the wire shape of one domain.ScoringResult.
type componentResultDTO struct {
	Score            float64        `json:"score"`
	Confidence       float64        `json:"confidence"`
	Details          map[string]any `json:"details,omitempty"`
	ProcessingTimeMs float64        `json:"processingTimeMs"`
	Error            string         `json:"error,omitempty"`
}

type componentResultsDTO struct {
	Semantic   componentResultDTO `json:"semantic"`
	Salary     componentResultDTO `json:"salary"`
	Experience componentResultDTO `json:"experience"`
	Location   componentResultDTO `json:"location"`
}

type weightingResultDTO struct {
	CandidateWeights   domain.WeightVector `json:"candidateWeights"`
	CompanyWeights     domain.WeightVector `json:"companyWeights"`
	ListeningReason    string              `json:"listeningReason"`
	Urgency            string              `json:"urgency"`
	ReasoningCandidate string              `json:"reasoningCandidate"`
	ReasoningCompany   string              `json:"reasoningCompany"`
}

// matchResponseDTO is the wire shape of domain.MatchingResponse.
type matchResponseDTO struct {
	FinalScore               float64             `json:"finalScore"`
	Confidence               float64             `json:"confidence"`
	Compatibility            string              `json:"compatibility"`
	SuccessOutlook           string              `json:"successOutlook"`
	Components               componentResultsDTO `json:"components"`
	Weighting                weightingResultDTO  `json:"weighting"`
	RecommendationsCandidate []string            `json:"recommendationsCandidate"`
	RecommendationsCompany   []string            `json:"recommendationsCompany"`
	Strengths                []string            `json:"strengths"`
	Attention                []string            `json:"attention"`
	ProcessingTimeMs         float64             `json:"processingTimeMs"`
	Cached                   bool                `json:"cached"`
}

func fromResult(r domain.ScoringResult) componentResultDTO {
	return componentResultDTO{
		Score:            r.Score,
		Confidence:       r.Confidence,
		Details:          r.Details,
		ProcessingTimeMs: r.ProcessingTimeMs,
		Error:            r.Error,
	}
}

func fromMatchResponse(resp domain.MatchingResponse) matchResponseDTO {
	return matchResponseDTO{
		FinalScore:     resp.FinalScore,
		Confidence:     resp.Confidence,
		Compatibility:  string(resp.Compatibility),
		SuccessOutlook: string(resp.SuccessOutlook),
		Components: componentResultsDTO{
			Semantic:   fromResult(resp.Components.Semantic),
			Salary:     fromResult(resp.Components.Salary),
			Experience: fromResult(resp.Components.Experience),
			Location:   fromResult(resp.Components.Location),
		},
		Weighting: weightingResultDTO{
			CandidateWeights:   resp.Weighting.CandidateWeights,
			CompanyWeights:     resp.Weighting.CompanyWeights,
			ListeningReason:    string(resp.Weighting.ListeningReason),
			Urgency:            string(resp.Weighting.Urgency),
			ReasoningCandidate: resp.Weighting.ReasoningCandidate,
			ReasoningCompany:   resp.Weighting.ReasoningCompany,
		},
		RecommendationsCandidate: emptyIfNil(resp.RecommendationsCandidate),
		RecommendationsCompany:   emptyIfNil(resp.RecommendationsCompany),
		Strengths:                emptyIfNil(resp.Strengths),
		Attention:                emptyIfNil(resp.Attention),
		ProcessingTimeMs:         resp.ProcessingTimeMs,
		Cached:                   resp.Cached,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// statsResponseDTO is the wire shape of usecase.MatchStats.
type statsResponseDTO struct {
	TotalMatches        int64              `json:"totalMatches"`
	CacheHits           int64              `json:"cacheHits"`
	CacheHitRatePercent float64            `json:"cacheHitRatePercent"`
	AvgProcessingTimeMs float64            `json:"avgProcessingTimeMs"`
	CacheSize           int                `json:"cacheSize"`
	UptimeHours         float64            `json:"uptimeHours"`
	ComponentAverages   map[string]float64 `json:"componentAverages,omitempty"`
}

func validationField(err error) string {
	return fmt.Sprintf("%v", err)
}
