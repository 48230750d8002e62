package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mwhitby/recall-api/internal/domain"
	"github.com/mwhitby/recall-api/internal/platform/logger"
	"github.com/mwhitby/recall-api/internal/store"
)

// DocumentStore implements the store.DocumentStore interface using a
// PostgreSQL database as the storage backend. Tags are stored as a JSONB
// array; content search uses Postgres full-text search.
type DocumentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewDocumentStore creates a new PostgreSQL implementation of the
// DocumentStore interface. If logger is nil, a default logger will be used.
func NewDocumentStore(db store.DBTX, logger *slog.Logger) *DocumentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DocumentStore{
		db:     db,
		logger: logger.With(slog.String("component", "document_store")),
	}
}

// Ensure DocumentStore implements store.DocumentStore interface
var _ store.DocumentStore = (*DocumentStore)(nil)

// WithTx implements store.DocumentStore.WithTx
func (s *DocumentStore) WithTx(tx *sql.Tx) store.DocumentStore {
	return &DocumentStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.DocumentStore.Create
// Returns store.ErrTitleExists when the title is already taken.
func (s *DocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := doc.Validate(); err != nil {
		log.Warn("document validation failed during create",
			slog.String("error", err.Error()),
			slog.String("title", doc.Title))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	tags, err := json.Marshal(doc.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	query := `
		INSERT INTO documents (id, title, content, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.Title,
		doc.Content,
		tags,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate document title", slog.String("title", doc.Title))
			return store.ErrTitleExists
		}
		log.Error("failed to create document",
			slog.String("error", err.Error()),
			slog.String("title", doc.Title))
		return MapError(err)
	}

	log.Info("document created", slog.String("title", doc.Title))
	return nil
}

// GetByTitle implements store.DocumentStore.GetByTitle
// Returns store.ErrDocumentNotFound if the document does not exist.
func (s *DocumentStore) GetByTitle(ctx context.Context, title string) (*domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, content, tags, created_at, updated_at
		FROM documents
		WHERE title = $1
	`

	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, title))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("document not found", slog.String("title", title))
			return nil, store.ErrDocumentNotFound
		}
		log.Error("failed to get document by title",
			slog.String("error", err.Error()),
			slog.String("title", title))
		return nil, MapError(err)
	}

	return doc, nil
}

// Update implements store.DocumentStore.Update
// Returns store.ErrDocumentNotFound if the document does not exist.
func (s *DocumentStore) Update(ctx context.Context, doc *domain.Document) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := doc.Validate(); err != nil {
		log.Warn("document validation failed during update",
			slog.String("error", err.Error()),
			slog.String("title", doc.Title))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	tags, err := json.Marshal(doc.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	query := `
		UPDATE documents
		SET content = $2, tags = $3, updated_at = $4
		WHERE title = $1
	`
	result, err := s.db.ExecContext(ctx, query, doc.Title, doc.Content, tags, doc.UpdatedAt)
	if err != nil {
		log.Error("failed to update document",
			slog.String("error", err.Error()),
			slog.String("title", doc.Title))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "document"); err != nil {
		log.Debug("document not found for update", slog.String("title", doc.Title))
		return err
	}

	log.Info("document updated", slog.String("title", doc.Title))
	return nil
}

// Delete implements store.DocumentStore.Delete
func (s *DocumentStore) Delete(ctx context.Context, title string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE title = $1`, title)
	if err != nil {
		log.Error("failed to delete document",
			slog.String("error", err.Error()),
			slog.String("title", title))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "document"); err != nil {
		log.Debug("document not found for deletion", slog.String("title", title))
		return err
	}

	log.Info("document deleted", slog.String("title", title))
	return nil
}

// List implements store.DocumentStore.List
func (s *DocumentStore) List(ctx context.Context) ([]*domain.Document, error) {
	query := `
		SELECT id, title, content, tags, created_at, updated_at
		FROM documents
		ORDER BY title
	`
	return s.queryDocuments(ctx, query)
}

// ListByTags implements store.DocumentStore.ListByTags
// A document matches when it carries at least one of the given tags.
func (s *DocumentStore) ListByTags(ctx context.Context, tags []string) ([]*domain.Document, error) {
	query := `
		SELECT id, title, content, tags, created_at, updated_at
		FROM documents
		WHERE EXISTS (
			SELECT 1 FROM jsonb_array_elements_text(tags) AS t
			WHERE t = ANY($1)
		)
		ORDER BY title
	`
	return s.queryDocuments(ctx, query, tags)
}

// ListTitles implements store.DocumentStore.ListTitles
func (s *DocumentStore) ListTitles(ctx context.Context) ([]string, error) {
	return s.queryTitles(ctx, `SELECT title FROM documents ORDER BY title`)
}

// ListTitlesByTags implements store.DocumentStore.ListTitlesByTags
func (s *DocumentStore) ListTitlesByTags(ctx context.Context, tags []string) ([]string, error) {
	query := `
		SELECT title FROM documents
		WHERE EXISTS (
			SELECT 1 FROM jsonb_array_elements_text(tags) AS t
			WHERE t = ANY($1)
		)
		ORDER BY title
	`
	return s.queryTitles(ctx, query, tags)
}

// Search implements store.DocumentStore.Search
// It runs an english full-text query over document content and returns the
// titles of matching documents.
func (s *DocumentStore) Search(ctx context.Context, query string) ([]string, error) {
	sqlQuery := `
		SELECT title FROM documents
		WHERE to_tsvector('english', content) @@ plainto_tsquery('english', $1)
		ORDER BY title
	`
	return s.queryTitles(ctx, sqlQuery, query)
}

// UpsertMany implements store.DocumentStore.UpsertMany
func (s *DocumentStore) UpsertMany(ctx context.Context, docs []*domain.Document) (store.UpsertSummary, error) {
	var summary store.UpsertSummary

	if db, ok := s.db.(*sql.DB); ok {
		err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			var txErr error
			summary, txErr = s.WithTx(tx).UpsertMany(ctx, docs)
			return txErr
		})
		return summary, err
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO documents (id, title, content, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (title) DO UPDATE
		SET content = EXCLUDED.content,
		    tags = EXCLUDED.tags,
		    updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0) AS inserted
	`

	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			return store.UpsertSummary{}, fmt.Errorf("%w: document %q: %v",
				store.ErrInvalidEntity, doc.Title, err)
		}

		tags, err := json.Marshal(doc.Tags)
		if err != nil {
			return store.UpsertSummary{}, fmt.Errorf("failed to marshal tags: %w", err)
		}

		var inserted bool
		err = s.db.QueryRowContext(
			ctx,
			query,
			doc.ID,
			doc.Title,
			doc.Content,
			tags,
			doc.CreatedAt,
			doc.UpdatedAt,
		).Scan(&inserted)
		if err != nil {
			log.Error("failed to upsert document",
				slog.String("error", err.Error()),
				slog.String("title", doc.Title))
			return store.UpsertSummary{}, MapError(err)
		}

		if inserted {
			summary.Inserted++
		} else {
			summary.Updated++
		}
	}

	log.Info("bulk document upsert completed",
		slog.Int("inserted", summary.Inserted),
		slog.Int("updated", summary.Updated))
	return summary, nil
}

func (s *DocumentStore) queryDocuments(ctx context.Context, query string, args ...any) ([]*domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query documents", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var docs []*domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, MapError(err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return docs, nil
}

func (s *DocumentStore) queryTitles(ctx context.Context, query string, args ...any) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query document titles", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	titles := []string{}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, MapError(err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return titles, nil
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var tags []byte

	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Content,
		&tags,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tags, &doc.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document tags: %w", err)
	}

	return &doc, nil
}
