// Package tables loads the synonym and weight tables that the scoring
// and weighting engines consult. The data is embedded at build time and
// parsed once, on the first call to Load, then shared read-only by every concurrent
// match (§9: "Load once at process start; expose as a read-only value
// shared by all concurrent matches").
package tables

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/nextmatch/matching-engine/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var embeddedYAML []byte

// rawWeights mirrors the YAML shape of the weights block.
type rawWeights struct {
	Base                map[string]float64            `yaml:"base"`
	CandidateAdaptation map[string]map[string]float64  `yaml:"candidate_adaptation"`
	UrgencyMultiplier   map[string]float64             `yaml:"urgency_multiplier"`
}

type rawReasoning struct {
	Candidate map[string]string `yaml:"candidate"`
	Urgency   map[string]string `yaml:"urgency"`
}

type rawTables struct {
	Version   string                         `yaml:"version"`
	Synonyms  map[string][]string            `yaml:"synonyms"`
	Weights   rawWeights                     `yaml:"weights"`
	Reasoning rawReasoning                   `yaml:"reasoning"`
}

// Synonyms is a reverse-lookup synonym table: any alternate or canonical
// string lowercases to a single canonical concept key.
type Synonyms struct {
	version   string
	canonical map[string]string // lowercased alternate/canonical -> canonical key
}

// Canonicalize returns the canonical concept key for s, and whether s was
// recognized at all. The canonical key itself is always a hit.
func (s *Synonyms) Canonicalize(term string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(term))
	if key == "" {
		return "", false
	}
	canon, ok := s.canonical[key]
	return canon, ok
}

// Version returns the loaded table version identifier.
func (s *Synonyms) Version() string { return s.version }

// WeightTables holds the base weight vector and the two adaptation
// tables used by the weighting engine (§4.6).
type WeightTables struct {
	version             string
	Base                domain.WeightVector
	CandidateAdaptation map[domain.ListeningReason]domain.WeightVector
	UrgencyMultiplier   map[domain.HiringUrgency]float64
	ReasoningCandidate  map[domain.ListeningReason]string
	ReasoningUrgency    map[domain.HiringUrgency]string
}

// Version returns the loaded table version identifier.
func (w *WeightTables) Version() string { return w.version }

func toWeightVector(m map[string]float64) domain.WeightVector {
	return domain.WeightVector{
		Semantic:   m["semantic"],
		Salary:     m["salary"],
		Experience: m["experience"],
		Location:   m["location"],
	}
}

func buildSynonyms(raw rawTables) *Synonyms {
	s := &Synonyms{version: raw.Version, canonical: make(map[string]string)}
	for canon, alts := range raw.Synonyms {
		s.canonical[strings.ToLower(canon)] = canon
		for _, alt := range alts {
			s.canonical[strings.ToLower(strings.TrimSpace(alt))] = canon
		}
	}
	return s
}

func buildWeightTables(raw rawTables) (*WeightTables, error) {
	w := &WeightTables{
		version:             raw.Version,
		Base:                toWeightVector(raw.Weights.Base),
		CandidateAdaptation: make(map[domain.ListeningReason]domain.WeightVector),
		UrgencyMultiplier:   make(map[domain.HiringUrgency]float64),
		ReasoningCandidate:  make(map[domain.ListeningReason]string),
		ReasoningUrgency:    make(map[domain.HiringUrgency]string),
	}

	if d := w.Base.Sum(); d < 0.99 || d > 1.01 {
		return nil, fmt.Errorf("op=tables.buildWeightTables: base weight vector sums to %f, want ~1.0", d)
	}

	for reason, vec := range raw.Weights.CandidateAdaptation {
		lr := domain.ListeningReason(reason)
		if !lr.Valid() {
			return nil, fmt.Errorf("op=tables.buildWeightTables: unknown listening reason %q in candidate_adaptation", reason)
		}
		wv := toWeightVector(vec)
		if d := wv.Sum(); d < 0.99 || d > 1.01 {
			return nil, fmt.Errorf("op=tables.buildWeightTables: candidate_adaptation[%s] sums to %f, want ~1.0", reason, d)
		}
		w.CandidateAdaptation[lr] = wv
	}

	for urgency, mult := range raw.Weights.UrgencyMultiplier {
		hu := domain.HiringUrgency(urgency)
		if !hu.Valid() {
			return nil, fmt.Errorf("op=tables.buildWeightTables: unknown hiring urgency %q in urgency_multiplier", urgency)
		}
		w.UrgencyMultiplier[hu] = mult
	}

	for reason, text := range raw.Reasoning.Candidate {
		w.ReasoningCandidate[domain.ListeningReason(reason)] = text
	}
	for urgency, text := range raw.Reasoning.Urgency {
		w.ReasoningUrgency[domain.HiringUrgency(urgency)] = text
	}

	missing := make([]string, 0)
	for _, lr := range []domain.ListeningReason{
		domain.SalaryTooLow, domain.RoleMismatch, domain.LocationTooFar,
		domain.LackOfFlexibility, domain.LackOfProspects,
	} {
		if _, ok := w.CandidateAdaptation[lr]; !ok {
			missing = append(missing, string(lr))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("op=tables.buildWeightTables: missing candidate_adaptation rows: %s", strings.Join(missing, ", "))
	}

	for _, hu := range []domain.HiringUrgency{domain.Critical, domain.Urgent, domain.Normal, domain.LongTerm} {
		if _, ok := w.UrgencyMultiplier[hu]; !ok {
			return nil, fmt.Errorf("op=tables.buildWeightTables: missing urgency_multiplier row for %s", hu)
		}
	}

	return w, nil
}

func parse(data []byte) (*Synonyms, *WeightTables, error) {
	var raw rawTables
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("op=tables.parse: %w", err)
	}
	if raw.Version == "" {
		return nil, nil, fmt.Errorf("op=tables.parse: missing version field")
	}

	wt, err := buildWeightTables(raw)
	if err != nil {
		return nil, nil, err
	}
	syn := buildSynonyms(raw)
	return syn, wt, nil
}

var (
	loadOnce   sync.Once
	defaultSyn *Synonyms
	defaultWt  *WeightTables
	loadErr    error
)

// Load returns the process-wide synonym and weight tables, parsing the
// embedded YAML exactly once. Safe for concurrent use.
func Load() (*Synonyms, *WeightTables, error) {
	loadOnce.Do(func() {
		defaultSyn, defaultWt, loadErr = parse(embeddedYAML)
	})
	return defaultSyn, defaultWt, loadErr
}

// LoadFrom parses tables from an arbitrary YAML byte slice, bypassing the
// embedded default. Used in tests; the entrypoints call Load, so
// config.TablesPath is not read and no override file is loaded.
func LoadFrom(data []byte) (*Synonyms, *WeightTables, error) {
	return parse(data)
}

// MustLoad is Load but panics on error; used at process wiring time where
// a malformed embedded table is a startup-fatal misconfiguration.
func MustLoad() (*Synonyms, *WeightTables) {
	syn, wt, err := Load()
	if err != nil {
		panic(fmt.Sprintf("op=tables.MustLoad: %v", err))
	}
	return syn, wt
}
