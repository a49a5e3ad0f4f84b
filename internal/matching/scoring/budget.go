package scoring

import (
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

func init() {
	// Offline BPE loader avoids a network fetch of encoding files at
	// startup, which would otherwise block scoring in an environment
	// without outbound internet access.
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// maxDescriptionTokens bounds how much of a free-form description the
// semantic scorer tokenizes before computing overlap. Without this, a
// pathologically long description (or one built from repeated text) would
// dominate scoring time for no matching benefit.
const maxDescriptionTokens = 512

var (
	descriptionEncOnce sync.Once
	descriptionEnc     *tiktoken.Tiktoken
)

func descriptionEncoding() *tiktoken.Tiktoken {
	descriptionEncOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			descriptionEnc = enc
		}
	})
	return descriptionEnc
}

// budgetDescription truncates s to at most maxDescriptionTokens tiktoken
// tokens. If the encoding cannot be loaded it falls back to a conservative
// rune-count truncation instead of failing the scorer.
func budgetDescription(s string) string {
	enc := descriptionEncoding()
	if enc == nil {
		return fallbackTruncate(s)
	}
	tokens := enc.Encode(s, nil, nil)
	if len(tokens) <= maxDescriptionTokens {
		return s
	}
	return enc.Decode(tokens[:maxDescriptionTokens])
}

func fallbackTruncate(s string) string {
	const maxChars = maxDescriptionTokens * 4
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
