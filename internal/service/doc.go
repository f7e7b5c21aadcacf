// Package service contains the application use cases. It orchestrates the
// ingest pipeline, the deck store and the optional card generator to fulfill
// API and CLI requests, and owns transaction boundaries for operations that
// read and rewrite a deck.
//
// Services receive their dependencies through constructor injection and never
// depend on concrete infrastructure. Expected failures are returned as
// sentinel errors from this package or internal/ingest; unexpected ones are
// wrapped in DeckServiceError so callers can still match the cause with
// errors.Is.
package service
