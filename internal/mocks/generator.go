package mocks

import (
	"context"

	"github.com/flashdeck/flashdeck-api/internal/generation"
)

// MockGenerator implements generation.Generator.
type MockGenerator struct {
	ExtractPairsFn func(ctx context.Context, filename, text string) ([]generation.Pair, error)

	Calls     []string
	Filenames []string
}

var _ generation.Generator = (*MockGenerator)(nil)

// NewMockGenerator returns a generator that always yields pairs.
func NewMockGenerator(pairs ...generation.Pair) *MockGenerator {
	return &MockGenerator{
		ExtractPairsFn: func(context.Context, string, string) ([]generation.Pair, error) {
			return pairs, nil
		},
	}
}

// ExtractPairs implements generation.Generator.
func (m *MockGenerator) ExtractPairs(ctx context.Context, filename, text string) ([]generation.Pair, error) {
	m.Calls = append(m.Calls, text)
	m.Filenames = append(m.Filenames, filename)
	if m.ExtractPairsFn != nil {
		return m.ExtractPairsFn(ctx, filename, text)
	}
	return nil, nil
}
