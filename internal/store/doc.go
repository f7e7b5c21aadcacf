// Package store defines the persistence interfaces for users and their
// decks, the errors implementations return, and transaction helpers.
// Implementations live under internal/platform.
package store
