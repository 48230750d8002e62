package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewDocument(t *testing.T) {
	t.Parallel() // Enable parallel execution

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	doc, err := NewDocument("Go Basics", "Go is a programming language.", []string{"go"}, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if doc.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if doc.Title != "Go Basics" {
		t.Errorf("Expected title %q, got %q", "Go Basics", doc.Title)
	}
	if !doc.CreatedAt.Equal(now) || !doc.UpdatedAt.Equal(now) {
		t.Errorf("Expected timestamps %v, got created=%v updated=%v",
			now, doc.CreatedAt, doc.UpdatedAt)
	}

	// Test empty title
	_, err = NewDocument("", "content", nil, now)
	if err != ErrDocumentTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrDocumentTitleEmpty, err)
	}

	// Test empty content
	_, err = NewDocument("title", "", nil, now)
	if err != ErrDocumentContentEmpty {
		t.Errorf("Expected error %v, got %v", ErrDocumentContentEmpty, err)
	}
}

func TestDocumentValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution

	valid := Document{
		ID:      uuid.New(),
		Title:   "Go Basics",
		Content: "Go is a programming language.",
		Tags:    []string{},
	}

	testCases := []struct {
		name     string
		mutate   func(d *Document)
		expected error
	}{
		{
			name:     "Valid document passes",
			mutate:   func(d *Document) {},
			expected: nil,
		},
		{
			name:     "Nil ID fails",
			mutate:   func(d *Document) { d.ID = uuid.Nil },
			expected: ErrDocumentIDEmpty,
		},
		{
			name:     "Empty title fails",
			mutate:   func(d *Document) { d.Title = "" },
			expected: ErrDocumentTitleEmpty,
		},
		{
			name:     "Empty content fails",
			mutate:   func(d *Document) { d.Content = "" },
			expected: ErrDocumentContentEmpty,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := valid
			tc.mutate(&doc)

			err := doc.Validate()
			if err != tc.expected {
				t.Errorf("Expected error %v, got %v", tc.expected, err)
			}
		})
	}
}
