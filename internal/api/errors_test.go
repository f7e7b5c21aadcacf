package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/generation"
	"github.com/flashdeck/flashdeck-api/internal/ingest"
	"github.com/flashdeck/flashdeck-api/internal/service"
	"github.com/flashdeck/flashdeck-api/internal/service/auth"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

func uploadFailure(cause error) error {
	return fmt.Errorf("%w: %w", service.ErrUploadFailure, cause)
}

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
		msg  string
	}{
		{"nil", nil, http.StatusOK, "An unexpected error occurred"},
		{"no data", ingest.ErrNoDataParsed, http.StatusUnprocessableEntity, MsgNoDataParsed},
		{"parse failure", fmt.Errorf("%w: line 3", ingest.ErrParseFailure), http.StatusUnprocessableEntity, MsgParseFailure},
		{"missing field", ingest.ErrMissingField, http.StatusBadRequest, MsgMissingField},
		{"empty result", ingest.ErrEmptyResult, http.StatusUnprocessableEntity, MsgEmptyResult},
		{"too many rows", fmt.Errorf("%w: 5 rows", service.ErrTooManyRows), http.StatusUnprocessableEntity, MsgTooManyRows},
		{"upload empty", uploadFailure(ingest.ErrEmptyResult), http.StatusUnprocessableEntity, MsgEmptyResult},
		{"upload no data", uploadFailure(ingest.ErrNoDataParsed), http.StatusUnprocessableEntity, MsgNoDataParsed},
		{"upload transient", uploadFailure(generation.ErrTransientFailure), http.StatusBadGateway, MsgUploadFailed},
		{"upload invalid response", uploadFailure(generation.ErrInvalidResponse), http.StatusBadGateway, MsgUploadFailed},
		{
			"upload blocked", uploadFailure(generation.ErrContentBlocked), http.StatusUnprocessableEntity,
			"The file content was rejected by the card generator.",
		},
		{"not found", service.ErrFlashcardNotFound, http.StatusNotFound, "Flashcard not found"},
		{"store not found", store.ErrCardNotFound, http.StatusNotFound, "Flashcard not found"},
		{"email exists", store.ErrEmailExists, http.StatusConflict, "Email already exists"},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized, "Token expired"},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
		{"empty question", domain.ErrQuestionEmpty, http.StatusBadRequest, "Question cannot be empty"},
		{
			"domain validation", domain.NewValidationError("file", "is required", domain.ErrValidation),
			http.StatusBadRequest, "Invalid request: file is required",
		},
		{
			"wrapped in service error", service.NewDeckServiceError("edit", "failed", store.ErrCardNotFound),
			http.StatusNotFound, "Flashcard not found",
		},
		{"unknown", errors.New("connection reset by peer"), http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
			assert.Equal(t, tc.msg, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.ValidateRequest(&RegisterRequest{Email: "not-an-email", Password: "correct-horse-battery"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, MapErrorToStatusCode(err))
	assert.Equal(t, "Invalid Email: invalid email format", SanitizeValidationError(err))
	assert.NotContains(t, SanitizeValidationError(err), "RegisterRequest")

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}

func TestHandleAPIError(t *testing.T) {
	t.Parallel()

	t.Run("uses fallback for unknown errors", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		HandleAPIError(w, r, errors.New("dial tcp 10.0.0.1:5432: refused"), "Failed to load flashcards")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeBody[shared.ErrorResponse](t, w)
		assert.Equal(t, "Failed to load flashcards", body.Error)
		assert.NotContains(t, w.Body.String(), "10.0.0.1")
	})

	t.Run("keeps mapped message for known errors", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		HandleAPIError(w, r, ingest.ErrMissingField, "ignored")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, MsgMissingField, decodeBody[shared.ErrorResponse](t, w).Error)
	})
}
