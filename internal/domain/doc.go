// Package domain contains the core entities of the flashcard service:
// flashcards, the users who own decks of them, and the derived deck
// statistics. It is independent of storage and transport.
package domain
