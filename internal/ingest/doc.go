// Package ingest turns uploaded data files into flashcards.
//
// The pipeline has three stages. Parse reads raw file text of a declared
// Format into ordered Rows. A FieldMapper discovers the headers of those rows,
// holds the question/answer FieldSelection and pages rows for display.
// Assemble converts the full row set into flashcards with fresh identities.
//
// Failures are reported with the sentinel errors in errors.go so callers can
// surface a message and let the user retry; none of them are fatal.
package ingest
