package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mwhitby/recall-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pgError(code string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ConstraintName: "some_constraint"}
}

func TestMapError(t *testing.T) {
	t.Parallel() // Enable parallel execution

	testCases := []struct {
		name     string
		input    error
		expected error
	}{
		{
			name:     "Nil error passes through",
			input:    nil,
			expected: nil,
		},
		{
			name:     "sql.ErrNoRows maps to ErrNotFound",
			input:    sql.ErrNoRows,
			expected: store.ErrNotFound,
		},
		{
			name:     "Wrapped sql.ErrNoRows maps to ErrNotFound",
			input:    fmt.Errorf("scan: %w", sql.ErrNoRows),
			expected: store.ErrNotFound,
		},
		{
			name:     "Unique violation maps to ErrDuplicate",
			input:    pgError(uniqueViolationCode),
			expected: store.ErrDuplicate,
		},
		{
			name:     "Foreign key violation maps to ErrInvalidEntity",
			input:    pgError(foreignKeyViolationCode),
			expected: store.ErrInvalidEntity,
		},
		{
			name:     "Check violation maps to ErrInvalidEntity",
			input:    pgError(checkViolationCode),
			expected: store.ErrInvalidEntity,
		},
		{
			name:     "Not null violation maps to ErrInvalidEntity",
			input:    pgError(notNullViolationCode),
			expected: store.ErrInvalidEntity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError(tc.input)
			if tc.expected == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.expected)
		})
	}
}

func TestMapErrorPassesUnknownErrorsThrough(t *testing.T) {
	t.Parallel() // Enable parallel execution

	unknown := errors.New("connection reset by peer")
	got := MapError(unknown)
	assert.Equal(t, unknown, got, "Unknown errors should pass through unchanged")
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel() // Enable parallel execution

	assert.True(t, IsUniqueViolation(pgError(uniqueViolationCode)))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", pgError(uniqueViolationCode))))
	assert.False(t, IsUniqueViolation(pgError(checkViolationCode)))
	assert.False(t, IsUniqueViolation(errors.New("other")))
	assert.False(t, IsUniqueViolation(nil))
}

// fakeResult implements sql.Result for CheckRowsAffected tests.
type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel() // Enable parallel execution

	t.Run("rows affected passes", func(t *testing.T) {
		err := CheckRowsAffected(fakeResult{rows: 1}, "card")
		require.NoError(t, err)
	})

	t.Run("zero rows maps to ErrNotFound with entity name", func(t *testing.T) {
		err := CheckRowsAffected(fakeResult{rows: 0}, "card")
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Contains(t, err.Error(), "card")
	})

	t.Run("RowsAffected failure is wrapped", func(t *testing.T) {
		inner := errors.New("driver does not support RowsAffected")
		err := CheckRowsAffected(fakeResult{err: inner}, "card")
		require.Error(t, err)
		assert.ErrorIs(t, err, inner)
	})

	t.Run("nil result errors", func(t *testing.T) {
		err := CheckRowsAffected(nil, "card")
		assert.Error(t, err)
	})
}
