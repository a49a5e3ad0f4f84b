package scoring

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/nextmatch/matching-engine/internal/domain"
)

const embeddingDimensions = 64

// HashEmbedder is a deterministic, dependency-free stand-in for a real
// embedding provider. It hashes each token into one of embeddingDimensions
// buckets and accumulates a count per bucket, giving two texts that
// share vocabulary a non-zero cosine similarity without ever calling out
// to a network service. Embed never errors and always returns the same
// vector for the same text, which the semantic scorer's determinism
// requirement depends on.
type HashEmbedder struct{}

// NewHashEmbedder builds a HashEmbedder.
func NewHashEmbedder() *HashEmbedder { return &HashEmbedder{} }

// Embed implements domain.AIClient.
func (HashEmbedder) Embed(_ domain.Context, text string) ([]float64, error) {
	return hashEmbed(text), nil
}

func hashEmbed(text string) []float64 {
	vec := make([]float64, embeddingDimensions)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		bucket := h.Sum32() % embeddingDimensions
		vec[bucket]++
	}
	normalize(vec)
	return vec
}

func normalize(vec []float64) {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += v * v
	}
	if sumSquares == 0 {
		return
	}
	norm := math.Sqrt(sumSquares)
	for i := range vec {
		vec[i] /= norm
	}
}

// cosineSimilarity returns the cosine similarity of two equal-length
// vectors, clamped to [0, 1] since embeddingBoost treats negative
// similarity the same as no similarity.
func cosineSimilarity(a, b []float64) float64 {
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return clamp01(dot)
}

// embeddingBoost compares a deterministic hash embedding of the
// candidate's technical skills and experience titles against the job's
// title and description. It reports ok=false (no opinion, not a neutral
// 0.5) whenever there is no embedder or no text on either side to
// compare, so the caller never folds in a floor value for data that
// simply isn't there; competenceMatch's own substring/synonym result is
// the sole signal in that case, per §4.2.
func embeddingBoost(embedder domain.AIClient, candidate domain.CandidateProfile, company domain.CompanyProfile) (score float64, ok bool) {
	if embedder == nil {
		return 0, false
	}

	var candidateText strings.Builder
	for skill := range candidate.Skills.Technical {
		candidateText.WriteString(skill)
		candidateText.WriteString(" ")
	}
	for _, e := range candidate.Experiences {
		candidateText.WriteString(e.Title)
		candidateText.WriteString(" ")
	}
	jobText := company.Job.Title + " " + budgetDescription(company.Job.Description)

	if candidateText.Len() == 0 || strings.TrimSpace(jobText) == "" {
		return 0, false
	}

	ctx := context.Background()
	candidateVec, _ := embedder.Embed(ctx, budgetDescription(candidateText.String()))
	jobVec, _ := embedder.Embed(ctx, jobText)
	return cosineSimilarity(candidateVec, jobVec), true
}
