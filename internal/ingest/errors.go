package ingest

import "errors"

// Pipeline errors. Callers match them with errors.Is.
var (
	// ErrNoDataParsed means the file parsed but produced zero rows.
	ErrNoDataParsed = errors.New("no data could be parsed from the file")

	// ErrParseFailure means the file content is malformed for its format.
	ErrParseFailure = errors.New("failed to parse file")

	// ErrMissingField means the question or answer field is unset or unknown.
	ErrMissingField = errors.New("question and answer fields must both be selected")

	// ErrEmptyResult means every row failed the non-empty check during assembly.
	ErrEmptyResult = errors.New("no flashcards could be created from the selected fields")

	// ErrUnsupportedFormat is returned by ParseFormat for unknown format names.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)
