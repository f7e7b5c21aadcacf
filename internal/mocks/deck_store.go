package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// MockDeckStore implements store.DeckStore over an in-memory map of decks.
// Cards are copied on the way in and out.
type MockDeckStore struct {
	LoadFn   func(ctx context.Context, userID uuid.UUID) ([]*domain.Flashcard, error)
	SaveFn   func(ctx context.Context, userID uuid.UUID, cards []*domain.Flashcard) error
	UpdateFn func(ctx context.Context, userID uuid.UUID, card *domain.Flashcard) error
	DeleteFn func(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	GetFn    func(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Flashcard, error)

	mu        sync.Mutex
	decks     map[uuid.UUID][]*domain.Flashcard
	SaveCalls int
}

var _ store.DeckStore = (*MockDeckStore)(nil)

// NewMockDeckStore creates an empty MockDeckStore.
func NewMockDeckStore() *MockDeckStore {
	return &MockDeckStore{decks: make(map[uuid.UUID][]*domain.Flashcard)}
}

// Seed sets a user's deck directly.
func (m *MockDeckStore) Seed(userID uuid.UUID, cards ...*domain.Flashcard) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decks[userID] = copyCards(cards)
}

// Load implements store.DeckStore.
func (m *MockDeckStore) Load(ctx context.Context, userID uuid.UUID) ([]*domain.Flashcard, error) {
	if m.LoadFn != nil {
		return m.LoadFn(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyCards(m.decks[userID]), nil
}

// Save implements store.DeckStore.
func (m *MockDeckStore) Save(ctx context.Context, userID uuid.UUID, cards []*domain.Flashcard) error {
	m.mu.Lock()
	m.SaveCalls++
	m.mu.Unlock()

	if m.SaveFn != nil {
		return m.SaveFn(ctx, userID, cards)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decks[userID] = copyCards(cards)
	return nil
}

// Update implements store.DeckStore.
func (m *MockDeckStore) Update(ctx context.Context, userID uuid.UUID, card *domain.Flashcard) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, userID, card)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.decks[userID] {
		if c.ID == card.ID {
			updated := *card
			m.decks[userID][i] = &updated
		}
	}
	return nil
}

// Delete implements store.DeckStore.
func (m *MockDeckStore) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	deck := m.decks[userID]
	kept := deck[:0]
	for _, c := range deck {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	m.decks[userID] = kept
	return nil
}

// Get implements store.DeckStore.
func (m *MockDeckStore) Get(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Flashcard, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.decks[userID] {
		if c.ID == id {
			out := *c
			return &out, nil
		}
	}
	return nil, store.ErrCardNotFound
}

// WithTx implements store.DeckStore.
func (m *MockDeckStore) WithTx(*sql.Tx) store.DeckStore {
	return m
}

func copyCards(cards []*domain.Flashcard) []*domain.Flashcard {
	out := make([]*domain.Flashcard, len(cards))
	for i, c := range cards {
		cp := *c
		out[i] = &cp
	}
	return out
}
