package generation

import (
	"context"
	"strings"
)

// Pair is one extracted question/answer pair.
type Pair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Valid reports whether both sides are non-empty after trimming.
func (p Pair) Valid() bool {
	return strings.TrimSpace(p.Question) != "" && strings.TrimSpace(p.Answer) != ""
}

// Generator extracts question/answer pairs from free text.
type Generator interface {
	// ExtractPairs returns the pairs found in text read from the file
	// filename. An empty result is not an error.
	ExtractPairs(ctx context.Context, filename, text string) ([]Pair, error)
}
