package generation

import "errors"

// Generation errors.
var (
	// ErrGenerationFailed is returned when extraction fails for a general reason.
	ErrGenerationFailed = errors.New("failed to extract flashcards from text")

	// ErrInvalidResponse is returned when the model output cannot be parsed.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when safety filters block the content.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned when retries are exhausted or cancelled.
	ErrTransientFailure = errors.New("transient error during flashcard extraction")

	// ErrInvalidConfig is returned for unusable generator settings.
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyInput is returned when there is no text to extract from.
	ErrEmptyInput = errors.New("input text cannot be empty")
)
