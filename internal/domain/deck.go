package domain

import "math"

// minutesPerCard is the study-time estimate used by the dashboard.
const minutesPerCard = 0.5

// DeckStats summarizes mastery progress over a deck.
type DeckStats struct {
	Total            int `json:"total"`
	Known            int `json:"known"`
	ProgressPercent  int `json:"progress_percent"`
	EstimatedMinutes int `json:"estimated_minutes"`
}

// NewDeckStats computes stats for cards. An empty deck has zero progress.
func NewDeckStats(cards []*Flashcard) DeckStats {
	stats := DeckStats{Total: len(cards)}
	for _, c := range cards {
		if c.Known {
			stats.Known++
		}
	}

	if stats.Total == 0 {
		return stats
	}

	stats.ProgressPercent = int(math.Round(float64(stats.Known) / float64(stats.Total) * 100))
	stats.EstimatedMinutes = int(math.Ceil(float64(stats.Total) * minutesPerCard))
	return stats
}
