package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

const flashcardColumns = `id, user_id, question, answer, deck_id, known, last_studied, created_at, updated_at`

// PostgresDeckStore implements store.DeckStore. Cards are rows of the
// flashcards table; a position column keeps deck order.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.DeckStore = (*PostgresDeckStore)(nil)

// NewPostgresDeckStore creates a deck store on db. A nil logger uses the
// default logger.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// WithTx implements store.DeckStore.
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{db: tx, logger: s.logger}
}

// Load implements store.DeckStore.
func (s *PostgresDeckStore) Load(ctx context.Context, userID uuid.UUID) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+flashcardColumns+` FROM flashcards WHERE user_id = $1 ORDER BY position, created_at`,
		userID)
	if err != nil {
		log.Error("failed to query deck",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("flashcard", "load", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Flashcard, 0)
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err == nil {
			err = card.Validate()
		}
		if err != nil {
			log.Warn("discarding undecodable deck",
				slog.String("user_id", userID.String()),
				slog.String("error", err.Error()))
			return []*domain.Flashcard{}, nil
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		log.Error("failed to read deck rows",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("flashcard", "load", "row iteration failed", MapError(err))
	}

	log.Debug("deck loaded",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(cards)))
	return cards, nil
}

// Save implements store.DeckStore. Every card is validated before any row
// is touched.
func (s *PostgresDeckStore) Save(ctx context.Context, userID uuid.UUID, cards []*domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return store.NewStoreError("flashcard", "save", "invalid flashcard",
				fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
		}
		if card.UserID != userID {
			return store.NewStoreError("flashcard", "save", "flashcard belongs to another user", store.ErrInvalidEntity)
		}
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM flashcards WHERE user_id = $1`, userID); err != nil {
		log.Error("failed to clear deck",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("flashcard", "save", "clearing deck failed", MapError(err))
	}

	if len(cards) == 0 {
		return nil
	}

	stmt, err := s.db.PrepareContext(ctx, `
		INSERT INTO flashcards (`+flashcardColumns+`, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`)
	if err != nil {
		return store.NewStoreError("flashcard", "save", "prepare failed", MapError(err))
	}
	defer func() { _ = stmt.Close() }()

	for i, card := range cards {
		_, err := stmt.ExecContext(ctx,
			card.ID, userID, card.Question, card.Answer, card.DeckID,
			card.Known, card.LastStudied, card.CreatedAt, card.UpdatedAt, i)
		if err != nil {
			log.Error("failed to insert flashcard",
				slog.String("user_id", userID.String()),
				slog.String("flashcard_id", card.ID.String()),
				slog.String("error", err.Error()))
			return store.NewStoreError("flashcard", "save", "insert failed", MapError(err))
		}
	}

	log.Debug("deck saved",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(cards)))
	return nil
}

// Update implements store.DeckStore.
func (s *PostgresDeckStore) Update(ctx context.Context, userID uuid.UUID, card *domain.Flashcard) error {
	if err := card.Validate(); err != nil {
		return store.NewStoreError("flashcard", "update", "invalid flashcard",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE flashcards
		SET question = $1, answer = $2, deck_id = $3, known = $4, last_studied = $5, updated_at = $6
		WHERE id = $7 AND user_id = $8`,
		card.Question, card.Answer, card.DeckID, card.Known, card.LastStudied,
		card.UpdatedAt, card.ID, userID)
	if err != nil {
		return store.NewStoreError("flashcard", "update", "update failed", MapError(err))
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		logger.FromContextOrDefault(ctx, s.logger).Debug("update skipped, flashcard not in deck",
			slog.String("flashcard_id", card.ID.String()))
	}
	return nil
}

// Delete implements store.DeckStore.
func (s *PostgresDeckStore) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM flashcards WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return store.NewStoreError("flashcard", "delete", "delete failed", MapError(err))
	}
	return nil
}

// Get implements store.DeckStore.
func (s *PostgresDeckStore) Get(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Flashcard, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+flashcardColumns+` FROM flashcards WHERE id = $1 AND user_id = $2`,
		id, userID)

	card, err := scanFlashcard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCardNotFound
	}
	if err != nil {
		return nil, store.NewStoreError("flashcard", "get", "query failed", MapError(err))
	}
	return card, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row scanner) (*domain.Flashcard, error) {
	var (
		card        domain.Flashcard
		deckID      sql.NullString
		lastStudied sql.NullTime
	)
	err := row.Scan(
		&card.ID, &card.UserID, &card.Question, &card.Answer, &deckID,
		&card.Known, &lastStudied, &card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if deckID.Valid {
		card.DeckID = &deckID.String
	}
	if lastStudied.Valid {
		t := lastStudied.Time.UTC()
		card.LastStudied = &t
	}
	card.CreatedAt = card.CreatedAt.UTC()
	card.UpdatedAt = card.UpdatedAt.UTC()
	return &card, nil
}
