package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mwhitby/recall-api/internal/domain"
	"github.com/mwhitby/recall-api/internal/platform/logger"
	"github.com/mwhitby/recall-api/internal/store"
)

// DocumentUpdate carries the optional fields of a partial document update.
type DocumentUpdate struct {
	Content *string
	Tags    []string
}

// DocumentService handles knowledge-base document operations: CRUD by
// title, tag filtering, full-text search and bulk export/import.
type DocumentService struct {
	docs   store.DocumentStore
	now    func() time.Time
	logger *slog.Logger
}

// NewDocumentService creates a DocumentService. If logger is nil, a default
// logger is used.
func NewDocumentService(docs store.DocumentStore, now func() time.Time, logger *slog.Logger) *DocumentService {
	if docs == nil {
		panic("docs cannot be nil")
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DocumentService{
		docs:   docs,
		now:    now,
		logger: logger.With(slog.String("component", "document_service")),
	}
}

// Create builds and persists a new document.
func (s *DocumentService) Create(ctx context.Context, title, content string, tags []string) (*domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	doc, err := domain.NewDocument(title, content, tags, s.now())
	if err != nil {
		log.Warn("document validation failed during create",
			slog.String("error", err.Error()),
			slog.String("title", title))
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// Get fetches a document by title.
func (s *DocumentService) Get(ctx context.Context, title string) (*domain.Document, error) {
	return s.docs.GetByTitle(ctx, title)
}

// Update applies a field-level partial update to the document with the
// given title and bumps its updated_at timestamp.
func (s *DocumentService) Update(ctx context.Context, title string, update DocumentUpdate) (*domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	doc, err := s.docs.GetByTitle(ctx, title)
	if err != nil {
		return nil, err
	}

	updated := *doc
	if update.Content != nil {
		updated.Content = *update.Content
	}
	if update.Tags != nil {
		updated.Tags = update.Tags
	}
	updated.UpdatedAt = s.now().UTC()

	if err := updated.Validate(); err != nil {
		log.Warn("document validation failed during update",
			slog.String("error", err.Error()),
			slog.String("title", title))
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.docs.Update(ctx, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// Delete removes a document by title.
func (s *DocumentService) Delete(ctx context.Context, title string) error {
	return s.docs.Delete(ctx, title)
}

// Titles returns all document titles.
func (s *DocumentService) Titles(ctx context.Context) ([]string, error) {
	return s.docs.ListTitles(ctx)
}

// TitlesByTags returns the titles of documents carrying at least one of the
// given tags.
func (s *DocumentService) TitlesByTags(ctx context.Context, tags []string) ([]string, error) {
	return s.docs.ListTitlesByTags(ctx, tags)
}

// ByTags returns documents carrying at least one of the given tags.
func (s *DocumentService) ByTags(ctx context.Context, tags []string) ([]*domain.Document, error) {
	return s.docs.ListByTags(ctx, tags)
}

// Search returns the titles of documents whose content matches the
// full-text query.
func (s *DocumentService) Search(ctx context.Context, query string) ([]string, error) {
	return s.docs.Search(ctx, query)
}

// Export returns all documents for backup.
func (s *DocumentService) Export(ctx context.Context) ([]*domain.Document, error) {
	docs, err := s.docs.List(ctx)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []*domain.Document{}
	}
	return docs, nil
}

// Import bulk-upserts the given documents by title.
func (s *DocumentService) Import(ctx context.Context, docs []*domain.Document) (store.UpsertSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	summary, err := s.docs.UpsertMany(ctx, docs)
	if err != nil {
		log.Error("bulk document import failed",
			slog.String("error", err.Error()),
			slog.Int("total", len(docs)))
		return store.UpsertSummary{}, err
	}

	log.Info("bulk document import completed",
		slog.Int("inserted", summary.Inserted),
		slog.Int("updated", summary.Updated))
	return summary, nil
}
