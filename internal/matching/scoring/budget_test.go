package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudgetDescription_ShortTextUnchanged(t *testing.T) {
	text := "Built backend services in Go."
	assert.Equal(t, text, budgetDescription(text))
}

func TestBudgetDescription_TruncatesPathologicalInput(t *testing.T) {
	text := strings.Repeat("word ", 20000)
	got := budgetDescription(text)

	assert.Less(t, len(got), len(text))
	assert.NotEmpty(t, got)
}

func TestFallbackTruncate_RespectsCharBudget(t *testing.T) {
	text := strings.Repeat("x", maxDescriptionTokens*4+100)
	got := fallbackTruncate(text)
	assert.LessOrEqual(t, len([]rune(got)), maxDescriptionTokens*4)
}
