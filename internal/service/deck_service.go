package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/config"
	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/generation"
	"github.com/flashdeck/flashdeck-api/internal/ingest"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// File is an uploaded file read as text.
type File struct {
	Name    string
	Content string
}

// Format returns the declared format selected by the file name.
func (f File) Format() ingest.Format {
	return ingest.FormatFromFilename(f.Name)
}

// PreviewRequest asks for one page of a parsed file. A zero Selection keeps
// the mapper's default.
type PreviewRequest struct {
	File      File
	Page      int
	Selection ingest.FieldSelection
}

// Preview is the mapping view of a parsed file.
type Preview struct {
	Filename    string                `json:"filename"`
	Format      ingest.Format         `json:"format"`
	Headers     []string              `json:"headers"`
	Selection   ingest.FieldSelection `json:"selection"`
	SelectionOK bool                  `json:"selection_valid"`
	TotalRows   int                   `json:"total_rows"`
	Page        int                   `json:"page"`
	PageCount   int                   `json:"page_count"`
	Rows        []ingest.Row          `json:"rows"`
	CardCount   int                   `json:"card_count"`
}

// ImportRequest confirms a mapping and creates flashcards from every row.
type ImportRequest struct {
	File      File
	Selection ingest.FieldSelection
}

// DeckService provides the deck use cases for one user at a time.
type DeckService interface {
	// Preview parses a file and returns one page of rows with the header
	// list and selection. It never touches the store.
	Preview(ctx context.Context, req PreviewRequest) (*Preview, error)

	// Import parses the file, validates the selection, assembles flashcards
	// and appends them to the user's deck. It returns the created cards.
	Import(ctx context.Context, userID uuid.UUID, req ImportRequest) ([]*domain.Flashcard, error)

	// Upload turns a file into flashcards without a mapping step, falling
	// back to the generator for unstructured text when one is configured.
	// The cards are appended to the deck.
	Upload(ctx context.Context, userID uuid.UUID, file File) ([]*domain.Flashcard, error)

	// List returns the user's deck in saved order.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Flashcard, error)

	// Edit replaces a card's question and answer with trimmed values.
	Edit(ctx context.Context, userID, cardID uuid.UUID, question, answer string) (*domain.Flashcard, error)

	// Delete removes a card. Deleting a missing card succeeds.
	Delete(ctx context.Context, userID, cardID uuid.UUID) error

	// MarkKnown records a study verdict and stamps LastStudied.
	MarkKnown(ctx context.Context, userID, cardID uuid.UUID, known bool) (*domain.Flashcard, error)

	// ResetProgress clears Known on every card in the deck.
	ResetProgress(ctx context.Context, userID uuid.UUID) error

	// Stats summarizes mastery progress.
	Stats(ctx context.Context, userID uuid.UUID) (domain.DeckStats, error)
}

type deckServiceImpl struct {
	decks     store.DeckStore
	db        *sql.DB
	generator generation.Generator
	cfg       config.ImportConfig
	now       func() time.Time
	logger    *slog.Logger
}

// NewDeckService creates a DeckService. generator may be nil, in which case
// uploads only accept structured files.
func NewDeckService(
	decks store.DeckStore,
	db *sql.DB,
	generator generation.Generator,
	cfg config.ImportConfig,
	logger *slog.Logger,
) (DeckService, error) {
	if decks == nil {
		return nil, domain.NewValidationError("decks", "cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &deckServiceImpl{
		decks:     decks,
		db:        db,
		generator: generator,
		cfg:       cfg,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "deck_service")),
	}, nil
}

// Preview implements DeckService.Preview.
func (s *deckServiceImpl) Preview(ctx context.Context, req PreviewRequest) (*Preview, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	mapper, err := s.parse(req.File)
	if err != nil {
		log.Debug("preview parse failed",
			slog.String("filename", req.File.Name),
			slog.String("error", err.Error()))
		return nil, err
	}

	if req.Selection.IsComplete() {
		mapper.Select(req.Selection)
	}
	mapper.SetPageSize(s.cfg.PreviewPageSize)

	rows, page := mapper.Page(req.Page)
	sel := mapper.Selection()
	valid := mapper.Validate() == nil

	preview := &Preview{
		Filename:    req.File.Name,
		Format:      req.File.Format(),
		Headers:     mapper.Headers(),
		Selection:   sel,
		TotalRows:   len(mapper.Rows()),
		Page:        page,
		PageCount:   mapper.PageCount(),
		Rows:        rows,
		SelectionOK: valid,
	}
	if valid {
		preview.CardCount = ingest.CountPairs(mapper.Rows(), sel)
	}

	log.Debug("built preview",
		slog.String("filename", req.File.Name),
		slog.Int("total_rows", preview.TotalRows),
		slog.Int("page", page))
	return preview, nil
}

// Import implements DeckService.Import.
func (s *deckServiceImpl) Import(
	ctx context.Context,
	userID uuid.UUID,
	req ImportRequest,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	mapper, err := s.parse(req.File)
	if err != nil {
		return nil, err
	}

	// An empty selection keeps the default of the first two headers.
	if req.Selection.QuestionField != "" || req.Selection.AnswerField != "" {
		mapper.Select(req.Selection)
	}
	if err := mapper.Validate(); err != nil {
		return nil, err
	}

	cards, err := ingest.Assemble(userID, mapper.Rows(), mapper.Selection())
	if err != nil {
		log.Info("import produced no flashcards",
			slog.String("filename", req.File.Name),
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.appendCards(ctx, "import", userID, cards); err != nil {
		return nil, err
	}

	log.Info("imported flashcards",
		slog.String("filename", req.File.Name),
		slog.Int("row_count", len(mapper.Rows())),
		slog.Int("card_count", len(cards)))
	return cards, nil
}

// Upload implements DeckService.Upload.
func (s *deckServiceImpl) Upload(ctx context.Context, userID uuid.UUID, file File) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	if strings.TrimSpace(file.Content) == "" {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailure, ingest.ErrNoDataParsed)
	}

	cards, structErr := s.assembleStructured(userID, file)
	if structErr != nil {
		if errors.Is(structErr, ErrTooManyRows) {
			return nil, structErr
		}
		if s.generator == nil {
			log.Info("upload is not a structured file and no generator is configured",
				slog.String("filename", file.Name),
				slog.String("error", structErr.Error()))
			return nil, fmt.Errorf("%w: %w", ErrUploadFailure, structErr)
		}

		generated, err := s.generate(ctx, userID, file)
		if err != nil {
			log.Error("generator failed during upload",
				slog.String("filename", file.Name),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: %w", ErrUploadFailure, err)
		}
		cards = generated
	}

	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailure, ingest.ErrEmptyResult)
	}

	if err := s.appendCards(ctx, "upload", userID, cards); err != nil {
		return nil, err
	}

	log.Info("uploaded flashcards",
		slog.String("filename", file.Name),
		slog.Int("card_count", len(cards)))
	return cards, nil
}

// assembleStructured reads file as a mapped table. It succeeds only when
// the rows carry question/answer semantics: explicit question and answer
// fields, or the first two columns of a CSV or JSON file.
func (s *deckServiceImpl) assembleStructured(userID uuid.UUID, file File) ([]*domain.Flashcard, error) {
	mapper, err := s.parse(file)
	if err != nil {
		return nil, err
	}

	headers := mapper.Headers()
	switch {
	case containsAll(headers, ingest.FieldQuestion, ingest.FieldAnswer):
		mapper.Select(ingest.FieldSelection{
			QuestionField: ingest.FieldQuestion,
			AnswerField:   ingest.FieldAnswer,
		})
	case file.Format() == ingest.FormatTXT:
		return nil, ingest.ErrMissingField
	}

	if err := mapper.Validate(); err != nil {
		return nil, err
	}
	return ingest.Assemble(userID, mapper.Rows(), mapper.Selection())
}

func (s *deckServiceImpl) generate(ctx context.Context, userID uuid.UUID, file File) ([]*domain.Flashcard, error) {
	pairs, err := s.generator.ExtractPairs(ctx, file.Name, file.Content)
	if err != nil {
		return nil, err
	}

	cards := make([]*domain.Flashcard, 0, len(pairs))
	for _, p := range pairs {
		if !p.Valid() {
			continue
		}
		card, err := domain.NewFlashcard(userID, strings.TrimSpace(p.Question), strings.TrimSpace(p.Answer))
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// parse runs the parser on file and wraps the rows in a mapper.
func (s *deckServiceImpl) parse(file File) (*ingest.FieldMapper, error) {
	rows, err := ingest.Parse(file.Content, file.Format())
	if err != nil {
		return nil, err
	}

	if s.cfg.MaxRows > 0 && len(rows) > s.cfg.MaxRows {
		return nil, fmt.Errorf("%w: %d rows, limit is %d", ErrTooManyRows, len(rows), s.cfg.MaxRows)
	}
	return ingest.NewFieldMapper(rows), nil
}

// appendCards loads the deck, appends cards and saves the union in one
// transaction.
func (s *deckServiceImpl) appendCards(ctx context.Context, op string, userID uuid.UUID, cards []*domain.Flashcard) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txDecks := s.decks.WithTx(tx)

		existing, err := txDecks.Load(ctx, userID)
		if err != nil {
			return NewDeckServiceError(op, "failed to load deck", err)
		}

		deck := make([]*domain.Flashcard, 0, len(existing)+len(cards))
		deck = append(deck, existing...)
		deck = append(deck, cards...)

		if err := txDecks.Save(ctx, userID, deck); err != nil {
			return NewDeckServiceError(op, "failed to save deck", err)
		}
		return nil
	})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to append flashcards",
			slog.String("operation", op),
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// List implements DeckService.List.
func (s *deckServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]*domain.Flashcard, error) {
	cards, err := s.decks.Load(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load deck",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewDeckServiceError("list", "failed to load deck", err)
	}
	return cards, nil
}

// Edit implements DeckService.Edit.
func (s *deckServiceImpl) Edit(
	ctx context.Context,
	userID, cardID uuid.UUID,
	question, answer string,
) (*domain.Flashcard, error) {
	card, err := s.get(ctx, "edit", userID, cardID)
	if err != nil {
		return nil, err
	}

	if err := card.Edit(question, answer); err != nil {
		return nil, err
	}

	if err := s.decks.Update(ctx, userID, card); err != nil {
		return nil, NewDeckServiceError("edit", "failed to update flashcard", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("edited flashcard",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()))
	return card, nil
}

// Delete implements DeckService.Delete.
func (s *deckServiceImpl) Delete(ctx context.Context, userID, cardID uuid.UUID) error {
	if err := s.decks.Delete(ctx, userID, cardID); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete flashcard",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("error", err.Error()))
		return NewDeckServiceError("delete", "failed to delete flashcard", err)
	}
	return nil
}

// MarkKnown implements DeckService.MarkKnown.
func (s *deckServiceImpl) MarkKnown(
	ctx context.Context,
	userID, cardID uuid.UUID,
	known bool,
) (*domain.Flashcard, error) {
	card, err := s.get(ctx, "mark_known", userID, cardID)
	if err != nil {
		return nil, err
	}

	card.MarkStudied(known, s.now())

	if err := s.decks.Update(ctx, userID, card); err != nil {
		return nil, NewDeckServiceError("mark_known", "failed to update flashcard", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("marked flashcard",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Bool("known", known))
	return card, nil
}

// ResetProgress implements DeckService.ResetProgress.
func (s *deckServiceImpl) ResetProgress(ctx context.Context, userID uuid.UUID) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txDecks := s.decks.WithTx(tx)

		cards, err := txDecks.Load(ctx, userID)
		if err != nil {
			return NewDeckServiceError("reset_progress", "failed to load deck", err)
		}
		for _, c := range cards {
			c.ResetProgress()
		}

		if err := txDecks.Save(ctx, userID, cards); err != nil {
			return NewDeckServiceError("reset_progress", "failed to save deck", err)
		}

		logger.FromContextOrDefault(ctx, s.logger).Info("reset study progress",
			slog.String("user_id", userID.String()),
			slog.Int("card_count", len(cards)))
		return nil
	})
}

// Stats implements DeckService.Stats.
func (s *deckServiceImpl) Stats(ctx context.Context, userID uuid.UUID) (domain.DeckStats, error) {
	cards, err := s.decks.Load(ctx, userID)
	if err != nil {
		return domain.DeckStats{}, NewDeckServiceError("stats", "failed to load deck", err)
	}
	return domain.NewDeckStats(cards), nil
}

func (s *deckServiceImpl) get(ctx context.Context, op string, userID, cardID uuid.UUID) (*domain.Flashcard, error) {
	card, err := s.decks.Get(ctx, userID, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrFlashcardNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve flashcard",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("error", err.Error()))
		return nil, NewDeckServiceError(op, "failed to retrieve flashcard", err)
	}
	return card, nil
}

func containsAll(headers []string, fields ...string) bool {
	for _, f := range fields {
		found := false
		for _, h := range headers {
			if h == f {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
