package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Document-specific validation errors
var (
	// ErrDocumentIDEmpty is returned when a document ID is empty or nil.
	ErrDocumentIDEmpty = errors.New("document ID cannot be empty")

	// ErrDocumentTitleEmpty is returned when a document's title is empty.
	ErrDocumentTitleEmpty = errors.New("document title cannot be empty")

	// ErrDocumentContentEmpty is returned when a document's content is empty.
	ErrDocumentContentEmpty = errors.New("document content cannot be empty")
)

// Document represents a knowledge-base entry: a titled, tagged body of text.
// Titles are unique across the collection and serve as the external
// identifier on the API surface.
type Document struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDocument creates a new Document with the given title, content and tags.
// Returns an error if validation fails.
func NewDocument(title, content string, tags []string, now time.Time) (*Document, error) {
	doc := &Document{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		Tags:      normalizeTags(tags),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// Validate checks if the Document has valid data.
func (d *Document) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDocumentIDEmpty
	}

	if d.Title == "" {
		return ErrDocumentTitleEmpty
	}

	if d.Content == "" {
		return ErrDocumentContentEmpty
	}

	return nil
}
