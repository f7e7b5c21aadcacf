package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Flashcard validation errors.
var (
	// ErrFlashcardIDEmpty is returned when a flashcard ID is the nil UUID.
	ErrFlashcardIDEmpty = errors.New("flashcard ID cannot be empty")

	// ErrFlashcardUserIDEmpty is returned when a flashcard has no owner.
	ErrFlashcardUserIDEmpty = errors.New("flashcard user ID cannot be empty")

	// ErrQuestionEmpty is returned when the question is empty after trimming.
	ErrQuestionEmpty = errors.New("question cannot be empty")

	// ErrAnswerEmpty is returned when the answer is empty after trimming.
	ErrAnswerEmpty = errors.New("answer cannot be empty")
)

// Flashcard is a question/answer pair in a user's deck.
//
// The ID is assigned when the card is created and is never reused. DeckID is an
// optional grouping key; a user's deck is the full set of their flashcards
// regardless of DeckID.
type Flashcard struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Question    string     `json:"question"`
	Answer      string     `json:"answer"`
	DeckID      *string    `json:"deck_id,omitempty"`
	LastStudied *time.Time `json:"last_studied,omitempty"`
	Known       bool       `json:"known"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewFlashcard creates a flashcard with a fresh identity and default study
// state. Question and answer are stored as given; they must be non-empty.
func NewFlashcard(userID uuid.UUID, question, answer string) (*Flashcard, error) {
	now := time.Now().UTC()
	card := &Flashcard{
		ID:        uuid.New(),
		UserID:    userID,
		Question:  question,
		Answer:    answer,
		Known:     false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks the persisted-card invariant: identity, owner, and
// non-empty trimmed question and answer.
func (c *Flashcard) Validate() error {
	if c.ID == uuid.Nil {
		return ErrFlashcardIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrFlashcardUserIDEmpty
	}

	if strings.TrimSpace(c.Question) == "" {
		return ErrQuestionEmpty
	}

	if strings.TrimSpace(c.Answer) == "" {
		return ErrAnswerEmpty
	}

	return nil
}

// Edit replaces the question and answer text. Both values are trimmed and
// must remain non-empty; on error the card is left unchanged.
func (c *Flashcard) Edit(question, answer string) error {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)

	if question == "" {
		return ErrQuestionEmpty
	}
	if answer == "" {
		return ErrAnswerEmpty
	}

	c.Question = question
	c.Answer = answer
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkStudied records a known/unknown verdict from a study session.
func (c *Flashcard) MarkStudied(known bool, at time.Time) {
	at = at.UTC()
	c.Known = known
	c.LastStudied = &at
	c.UpdatedAt = at
}

// ResetProgress clears the mastery flag. LastStudied is kept.
func (c *Flashcard) ResetProgress() {
	c.Known = false
	c.UpdatedAt = time.Now().UTC()
}
