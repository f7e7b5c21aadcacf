package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// DeckStore persists each user's deck: the ordered collection of their
// flashcards.
type DeckStore interface {
	// Load returns the user's deck in saved order. A user with nothing
	// persisted gets an empty deck. Stored cards that cannot be decoded are
	// logged and yield an empty deck rather than an error; connection and
	// query failures are returned.
	Load(ctx context.Context, userID uuid.UUID) ([]*domain.Flashcard, error)

	// Save replaces the user's whole deck with cards, preserving order.
	// Run it inside RunInTransaction so the replacement is atomic.
	Save(ctx context.Context, userID uuid.UUID, cards []*domain.Flashcard) error

	// Update replaces the stored card with card.ID. It is a no-op when no
	// such card exists in the user's deck.
	Update(ctx context.Context, userID uuid.UUID, card *domain.Flashcard) error

	// Delete removes the card with id. It is a no-op when absent.
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error

	// Get returns a single card or ErrCardNotFound.
	Get(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Flashcard, error)

	// WithTx returns a DeckStore bound to tx.
	WithTx(tx *sql.Tx) DeckStore
}
