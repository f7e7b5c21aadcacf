package ingest

import (
	"strings"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// Assemble converts rows into new flashcards owned by userID using the
// selected fields. Rows whose question or answer is absent or blank are
// skipped. Values are kept as parsed.
//
// It returns ErrMissingField for an incomplete selection and ErrEmptyResult
// when no row produces a card.
func Assemble(userID uuid.UUID, rows []Row, sel FieldSelection) ([]*domain.Flashcard, error) {
	if !sel.IsComplete() {
		return nil, ErrMissingField
	}

	cards := make([]*domain.Flashcard, 0, len(rows))
	for _, row := range rows {
		question, answer, ok := mappedPair(row, sel)
		if !ok {
			continue
		}

		card, err := domain.NewFlashcard(userID, question, answer)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	if len(cards) == 0 {
		return nil, ErrEmptyResult
	}
	return cards, nil
}

// CountPairs returns how many rows would become flashcards under sel.
func CountPairs(rows []Row, sel FieldSelection) int {
	if !sel.IsComplete() {
		return 0
	}

	n := 0
	for _, row := range rows {
		if _, _, ok := mappedPair(row, sel); ok {
			n++
		}
	}
	return n
}

func mappedPair(row Row, sel FieldSelection) (question, answer string, ok bool) {
	question = row.Value(sel.QuestionField)
	answer = row.Value(sel.AnswerField)
	ok = strings.TrimSpace(question) != "" && strings.TrimSpace(answer) != ""
	return question, answer, ok
}
