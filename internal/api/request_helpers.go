package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/ingest"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/service"
)

// Multipart form field names.
const (
	formFile          = "file"
	formQuestionField = "question_field"
	formAnswerField   = "answer_field"
)

// errFileTooLarge is returned when an upload exceeds the size limit.
var errFileTooLarge = errors.New("uploaded file is too large")

// getPathUUID parses the named chi URL parameter as a UUID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// requireUserID returns the authenticated user or writes a 401.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		logger.FromContext(r.Context()).Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return uuid.Nil, false
	}
	return userID, true
}

// handleUserIDAndPathUUID extracts the user and a path UUID, writing the
// error response when either is missing.
func handleUserIDAndPathUUID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	id, err := getPathUUID(r, paramName)
	if err != nil {
		logger.FromContext(r.Context()).Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

// readUploadedFile reads the multipart "file" field as text. The body is
// capped at maxBytes.
func readUploadedFile(w http.ResponseWriter, r *http.Request, maxBytes int64) (service.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return service.File{}, errFileTooLarge
		}
		return service.File{}, domain.NewValidationError(formFile, "must be sent as multipart form data", domain.ErrValidation)
	}

	f, header, err := r.FormFile(formFile)
	if err != nil {
		return service.File{}, domain.NewValidationError(formFile, "is required", domain.ErrValidation)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return service.File{}, fmt.Errorf("%w: %v", ingest.ErrParseFailure, err)
	}
	if !utf8.Valid(data) {
		return service.File{}, fmt.Errorf("%w: file is not valid UTF-8 text", ingest.ErrParseFailure)
	}

	return service.File{Name: header.Filename, Content: string(data)}, nil
}

// formSelection reads the field selection from the parsed form.
func formSelection(r *http.Request) ingest.FieldSelection {
	return ingest.FieldSelection{
		QuestionField: r.FormValue(formQuestionField),
		AnswerField:   r.FormValue(formAnswerField),
	}
}

// queryPage reads the 1-based page query parameter, defaulting to 1.
func queryPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// respondFileError writes the response for a readUploadedFile failure.
func respondFileError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errFileTooLarge) {
		shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge, "The file is too large.", err)
		return
	}
	HandleAPIError(w, r, err, "")
}
