package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestEntitySpecificErrorsWrapGenericOnes(t *testing.T) {
	t.Parallel() // Enable parallel execution

	if !errors.Is(ErrCardNotFound, ErrNotFound) {
		t.Error("Expected ErrCardNotFound to wrap ErrNotFound")
	}
	if !errors.Is(ErrDocumentNotFound, ErrNotFound) {
		t.Error("Expected ErrDocumentNotFound to wrap ErrNotFound")
	}
	if !errors.Is(ErrTitleExists, ErrDuplicate) {
		t.Error("Expected ErrTitleExists to wrap ErrDuplicate")
	}
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel() // Enable parallel execution

	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "Generic not found",
			err:      ErrNotFound,
			expected: true,
		},
		{
			name:     "Card not found",
			err:      ErrCardNotFound,
			expected: true,
		},
		{
			name:     "Wrapped card not found",
			err:      fmt.Errorf("loading card: %w", ErrCardNotFound),
			expected: true,
		},
		{
			name:     "Unrelated error",
			err:      errors.New("connection refused"),
			expected: false,
		},
		{
			name:     "Duplicate is not a not-found",
			err:      ErrTitleExists,
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsNotFoundError(tc.err); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Parallel() // Enable parallel execution

	inner := ErrCardNotFound
	err := NewStoreError("card", "update", "target row missing", inner)

	// The wrapped error stays reachable for errors.Is checks.
	if !errors.Is(err, ErrNotFound) {
		t.Error("Expected StoreError to unwrap to ErrNotFound")
	}

	msg := err.Error()
	if msg == "" {
		t.Fatal("Expected non-empty error message")
	}

	// Without an inner error the message still renders.
	bare := NewStoreError("card", "create", "validation rejected", nil)
	if bare.Error() == "" {
		t.Error("Expected non-empty error message without inner error")
	}
	if errors.Unwrap(bare) != nil {
		t.Error("Expected nil unwrap for StoreError without inner error")
	}
}
