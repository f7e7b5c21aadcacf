package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/flashdeck/flashdeck-api/internal/store"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"unique", &pgconn.PgError{Code: uniqueViolationCode}, store.ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: foreignKeyViolationCode}, store.ErrInvalidEntity},
		{"check", &pgconn.PgError{Code: checkViolationCode, ConstraintName: "flashcards_question_check"}, store.ErrInvalidEntity},
		{"not null", &pgconn.PgError{Code: notNullViolationCode, ColumnName: "answer"}, store.ErrInvalidEntity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError(tc.err)
			assert.ErrorIs(t, got, tc.want)
		})
	}

	assert.NoError(t, MapError(nil))

	other := errors.New("network down")
	assert.Equal(t, other, MapError(other))
}

func TestMapUniqueViolation(t *testing.T) {
	err := MapUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}, store.ErrEmailExists)
	assert.ErrorIs(t, err, store.ErrEmailExists)
	assert.True(t, store.IsDuplicateError(err))

	err = MapUniqueViolation(sql.ErrNoRows, store.ErrEmailExists)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
