package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest is the body of POST /api/auth/refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned by the auth endpoints.
type AuthResponse struct {
	UserID       string `json:"user_id,omitempty"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// EditFlashcardRequest is the body of PUT /api/flashcards/{id}. Values are
// trimmed by the service, so blank-only text fails there.
type EditFlashcardRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer"   validate:"required"`
}

// SetKnownRequest is the body of PUT /api/flashcards/{id}/known.
type SetKnownRequest struct {
	Known *bool `json:"known" validate:"required"`
}

// FlashcardResponse is the wire form of a flashcard.
type FlashcardResponse struct {
	ID          uuid.UUID  `json:"id"`
	Question    string     `json:"question"`
	Answer      string     `json:"answer"`
	DeckID      *string    `json:"deck_id,omitempty"`
	LastStudied *time.Time `json:"last_studied,omitempty"`
	Known       bool       `json:"known"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// FlashcardsResponse wraps a list of flashcards.
type FlashcardsResponse struct {
	Flashcards []FlashcardResponse `json:"flashcards"`
}

// ImportResponse is returned by a confirmed import or an upload.
type ImportResponse struct {
	Flashcards []FlashcardResponse `json:"flashcards"`
	Created    int                 `json:"created"`
	Message    string              `json:"message"`
}

func flashcardToResponse(c *domain.Flashcard) FlashcardResponse {
	return FlashcardResponse{
		ID:          c.ID,
		Question:    c.Question,
		Answer:      c.Answer,
		DeckID:      c.DeckID,
		LastStudied: c.LastStudied,
		Known:       c.Known,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func flashcardsToResponse(cards []*domain.Flashcard) []FlashcardResponse {
	out := make([]FlashcardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, flashcardToResponse(c))
	}
	return out
}
