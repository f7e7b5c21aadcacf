package service

import (
	"errors"
	"fmt"
)

// Service errors. The API layer maps them to HTTP status codes.
var (
	// ErrUploadFailure means a remote upload produced no flashcards or the
	// generator call failed. Nothing is committed.
	ErrUploadFailure = errors.New("upload failed")

	// ErrTooManyRows means the file has more rows than an import accepts.
	ErrTooManyRows = errors.New("file has too many rows")

	// ErrFlashcardNotFound means the card does not exist in the user's deck.
	ErrFlashcardNotFound = errors.New("flashcard not found")
)

// DeckServiceError wraps a failure with the operation that produced it.
type DeckServiceError struct {
	// Operation is the failed use case, e.g. "import" or "edit".
	Operation string
	// Message describes the failed step.
	Message string
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *DeckServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("deck service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("deck service %s failed: %s", e.Operation, e.Message)
}

// Unwrap supports errors.Is and errors.As.
func (e *DeckServiceError) Unwrap() error {
	return e.Err
}

// NewDeckServiceError creates a DeckServiceError.
func NewDeckServiceError(operation, message string, err error) *DeckServiceError {
	return &DeckServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
