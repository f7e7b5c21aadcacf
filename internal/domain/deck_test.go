package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeckStats(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DeckStats{}, NewDeckStats(nil))

	cards := []*Flashcard{{Known: true}, {Known: false}, {Known: true}}
	stats := NewDeckStats(cards)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Known)
	assert.Equal(t, 67, stats.ProgressPercent)
	assert.Equal(t, 2, stats.EstimatedMinutes)

	stats = NewDeckStats([]*Flashcard{{Known: true}})
	assert.Equal(t, 100, stats.ProgressPercent)
	assert.Equal(t, 1, stats.EstimatedMinutes)
}
