package store

import (
	"context"
	"database/sql"

	"github.com/mwhitby/recall-api/internal/domain"
)

// DocumentStore defines the interface for knowledge-base document persistence.
// Documents are addressed by their unique title on every lookup path; the
// UUID primary key is internal.
type DocumentStore interface {
	// Create saves a new document to the store.
	// Returns ErrTitleExists if a document with the same title exists.
	Create(ctx context.Context, doc *domain.Document) error

	// GetByTitle retrieves a document by its title.
	// Returns ErrDocumentNotFound if the document does not exist.
	GetByTitle(ctx context.Context, title string) (*domain.Document, error)

	// Update overwrites an existing document with the given snapshot,
	// matched by title. Returns ErrDocumentNotFound if it does not exist.
	Update(ctx context.Context, doc *domain.Document) error

	// Delete removes a document by its title.
	// Returns ErrDocumentNotFound if the document does not exist.
	Delete(ctx context.Context, title string) error

	// List returns all documents.
	List(ctx context.Context) ([]*domain.Document, error)

	// ListTitles returns the titles of all documents.
	ListTitles(ctx context.Context) ([]string, error)

	// ListByTags returns documents carrying at least one of the given tags.
	ListByTags(ctx context.Context, tags []string) ([]*domain.Document, error)

	// ListTitlesByTags returns the titles of documents carrying at least one
	// of the given tags.
	ListTitlesByTags(ctx context.Context, tags []string) ([]string, error)

	// Search returns the titles of documents whose content matches the
	// full-text query.
	Search(ctx context.Context, query string) ([]string, error)

	// UpsertMany inserts or overwrites the given documents by title.
	// The operation is atomic.
	UpsertMany(ctx context.Context, docs []*domain.Document) (UpsertSummary, error)

	// WithTx returns a DocumentStore bound to the provided transaction.
	WithTx(tx *sql.Tx) DocumentStore
}
