package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/generation"
	"github.com/flashdeck/flashdeck-api/internal/ingest"
	"github.com/flashdeck/flashdeck-api/internal/service"
	"github.com/flashdeck/flashdeck-api/internal/service/auth"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// User-facing messages for pipeline failures.
const (
	MsgNoDataParsed = "No data could be parsed from the file."
	MsgParseFailure = "Could not parse the file; check its format."
	MsgMissingField = "Select both a question and an answer field."
	MsgEmptyResult  = "No flashcards could be created with the selected fields."
	MsgUploadFailed = "Upload failed. Please try again."
	MsgTooManyRows  = "The file has too many rows."
)

// MapErrorToStatusCode maps service, pipeline and store errors to HTTP
// status codes. Unknown errors are 500.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	case err == nil:
		return http.StatusOK

	// Upload failures wrap their cause, so check them first.
	case errors.Is(err, service.ErrUploadFailure):
		if errors.Is(err, generation.ErrTransientFailure) ||
			errors.Is(err, generation.ErrInvalidResponse) ||
			errors.Is(err, generation.ErrGenerationFailed) {
			return http.StatusBadGateway
		}
		return http.StatusUnprocessableEntity

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrFlashcardNotFound),
		errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	case errors.Is(err, ingest.ErrMissingField),
		errors.Is(err, domain.ErrQuestionEmpty),
		errors.Is(err, domain.ErrAnswerEmpty),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrEmptyEmail),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrPasswordTooLong),
		errors.Is(err, store.ErrInvalidEntity),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	case errors.Is(err, ingest.ErrNoDataParsed),
		errors.Is(err, ingest.ErrParseFailure),
		errors.Is(err, ingest.ErrEmptyResult),
		errors.Is(err, service.ErrTooManyRows),
		errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err.
func GetSafeErrorMessage(err error) string {
	var (
		validationErrs validator.ValidationErrors
		domainErr      *domain.ValidationError
	)

	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, service.ErrUploadFailure):
		switch {
		case errors.Is(err, ingest.ErrNoDataParsed):
			return MsgNoDataParsed
		case errors.Is(err, ingest.ErrEmptyResult):
			return MsgEmptyResult
		case errors.Is(err, generation.ErrContentBlocked):
			return "The file content was rejected by the card generator."
		default:
			return MsgUploadFailed
		}

	case errors.Is(err, ingest.ErrNoDataParsed):
		return MsgNoDataParsed
	case errors.Is(err, ingest.ErrParseFailure):
		return MsgParseFailure
	case errors.Is(err, ingest.ErrMissingField):
		return MsgMissingField
	case errors.Is(err, ingest.ErrEmptyResult):
		return MsgEmptyResult
	case errors.Is(err, service.ErrTooManyRows):
		return MsgTooManyRows

	case errors.Is(err, domain.ErrQuestionEmpty):
		return "Question cannot be empty"
	case errors.Is(err, domain.ErrAnswerEmpty):
		return "Answer cannot be empty"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, service.ErrFlashcardNotFound),
		errors.Is(err, store.ErrCardNotFound):
		return "Flashcard not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, domain.ErrEmptyEmail),
		errors.Is(err, domain.ErrInvalidEmail):
		return "Invalid email"
	case errors.Is(err, domain.ErrPasswordTooShort):
		return "Password must be at least 12 characters long"
	case errors.Is(err, domain.ErrPasswordTooLong):
		return "Password must be at most 72 characters long"
	case errors.As(err, &domainErr):
		return "Invalid request: " + domainErr.Error()
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Validation error"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError describes the first failed field of a validator
// error without exposing struct names.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}

	fe := validationErrs[0]
	return "Invalid " + fe.Field() + ": " + validationTagMessage(fe.Tag())
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the mapped status and safe message for err and logs
// the redacted detail. A non-empty fallback replaces the generic 500
// message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
