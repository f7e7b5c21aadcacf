package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/service"
)

// DeckHandler serves the import pipeline, uploads, deck management and
// study endpoints.
type DeckHandler struct {
	decks          service.DeckService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewDeckHandler creates a DeckHandler. It panics on a nil service.
func NewDeckHandler(decks service.DeckService, maxUploadBytes int64, logger *slog.Logger) *DeckHandler {
	if decks == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("decks cannot be nil for DeckHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckHandler{
		decks:          decks,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "deck_handler")),
	}
}

// PreviewImport handles POST /api/imports/preview.
func (h *DeckHandler) PreviewImport(w http.ResponseWriter, r *http.Request) {
	file, err := readUploadedFile(w, r, h.maxUploadBytes)
	if err != nil {
		respondFileError(w, r, err)
		return
	}

	preview, err := h.decks.Preview(r.Context(), service.PreviewRequest{
		File:      file,
		Page:      queryPage(r),
		Selection: formSelection(r),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to preview file")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, preview)
}

// ConfirmImport handles POST /api/imports.
func (h *DeckHandler) ConfirmImport(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	file, err := readUploadedFile(w, r, h.maxUploadBytes)
	if err != nil {
		respondFileError(w, r, err)
		return
	}

	cards, err := h.decks.Import(r.Context(), userID, service.ImportRequest{
		File:      file,
		Selection: formSelection(r),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to import flashcards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, ImportResponse{
		Flashcards: flashcardsToResponse(cards),
		Created:    len(cards),
		Message:    fmt.Sprintf("Imported %d flashcards.", len(cards)),
	})
}

// Upload handles POST /api/uploads.
func (h *DeckHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	file, err := readUploadedFile(w, r, h.maxUploadBytes)
	if err != nil {
		respondFileError(w, r, err)
		return
	}

	cards, err := h.decks.Upload(r.Context(), userID, file)
	if err != nil {
		HandleAPIError(w, r, err, MsgUploadFailed)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("upload succeeded",
		slog.String("user_id", userID.String()),
		slog.Int("card_count", len(cards)))
	shared.RespondWithJSON(w, r, http.StatusCreated, ImportResponse{
		Flashcards: flashcardsToResponse(cards),
		Created:    len(cards),
		Message:    "Upload successful!",
	})
}

// ListFlashcards handles GET /api/flashcards.
func (h *DeckHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	cards, err := h.decks.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load flashcards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, FlashcardsResponse{Flashcards: flashcardsToResponse(cards)})
}

// EditFlashcard handles PUT /api/flashcards/{id}.
func (h *DeckHandler) EditFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req EditFlashcardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.decks.Edit(r.Context(), userID, cardID, req.Question, req.Answer)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update flashcard")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, flashcardToResponse(card))
}

// DeleteFlashcard handles DELETE /api/flashcards/{id}.
func (h *DeckHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.decks.Delete(r.Context(), userID, cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete flashcard")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetKnown handles PUT /api/flashcards/{id}/known.
func (h *DeckHandler) SetKnown(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req SetKnownRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.decks.MarkKnown(r.Context(), userID, cardID, *req.Known)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update flashcard")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, flashcardToResponse(card))
}

// ResetProgress handles POST /api/deck/reset.
func (h *DeckHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.decks.ResetProgress(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "Failed to reset progress")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/deck/stats.
func (h *DeckHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	stats, err := h.decks.Stats(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load deck stats")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
