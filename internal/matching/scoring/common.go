// Package scoring implements the four independent scorers — semantic,
// salary, experience, location — each a stateless, deterministic
// function over a (candidate, company) pair.
package scoring

import (
	"fmt"
	"strings"
	"time"
)

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

// tokenSet splits s on whitespace after lowercasing, returning the set of
// distinct tokens.
func tokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		out[tok] = struct{}{}
	}
	return out
}

// overlapRatio returns |a ∩ b| / max(|a|, |b|), or 0 if either side is empty.
func overlapRatio(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	common := 0
	for k := range a {
		if _, ok := b[k]; ok {
			common++
		}
	}
	denom := len(a)
	if len(b) > denom {
		denom = len(b)
	}
	return float64(common) / float64(denom)
}

// overlapsAny reports whether a and b share at least one token.
func overlapsAny(a, b map[string]struct{}) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

// substringEitherWay reports whether a contains b or b contains a,
// case-insensitively.
func substringEitherWay(a, b string) bool {
	a, b = strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// containsFold reports whether haystack contains needle, case-insensitively.
func containsFold(haystack, needle string) bool {
	if haystack == "" || needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// errorResultDetails builds the Details payload a scorer returns when a
// deferred recover catches a panic, satisfying the totality contract (a
// scorer must never panic out of its Score call).
func errorResultDetails(err any) map[string]any {
	return map[string]any{"error": fmt.Sprintf("%v", err)}
}
