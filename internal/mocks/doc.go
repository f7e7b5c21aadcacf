// Package mocks provides shared test doubles for the store, auth and
// generation interfaces.
//
// Each mock exposes one function field per interface method. A nil field
// falls back to a default: the store mocks keep data in memory, the others
// return their configured default values.
//
//	decks := mocks.NewMockDeckStore()
//	decks.LoadFn = func(ctx context.Context, userID uuid.UUID) ([]*domain.Flashcard, error) {
//	    return nil, errors.New("connection refused")
//	}
package mocks
