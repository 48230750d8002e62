package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mwhitby/recall-api/internal/domain"
	"github.com/mwhitby/recall-api/internal/platform/logger"
	"github.com/mwhitby/recall-api/internal/store"
)

// CardStore implements the store.CardStore interface using a PostgreSQL
// database as the storage backend. Tags are stored as a JSONB array.
type CardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCardStore creates a new PostgreSQL implementation of the CardStore
// interface. It accepts a database connection or transaction managed by the
// caller. If logger is nil, a default logger will be used.
func NewCardStore(db store.DBTX, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure CardStore implements store.CardStore interface
var _ store.CardStore = (*CardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CardStore.Create
// It saves a new card to the database, handling domain validation.
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	tags, err := json.Marshal(card.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	query := `
		INSERT INTO cards (id, question, answer, tags, success_count, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.Question,
		card.Answer,
		tags,
		card.SuccessCount,
		card.DueDate,
		card.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	log.Info("card created",
		slog.String("card_id", card.ID.String()),
		slog.Any("tags", card.Tags))
	return nil
}

// GetByID implements store.CardStore.GetByID
// Returns store.ErrCardNotFound if the card does not exist.
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, question, answer, tags, success_count, due_date, created_at
		FROM cards
		WHERE id = $1
	`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by ID",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, MapError(err)
	}

	return card, nil
}

// Update implements store.CardStore.Update
// It overwrites an existing card with the given snapshot.
// Returns store.ErrCardNotFound if the card does not exist.
func (s *CardStore) Update(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during update",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	tags, err := json.Marshal(card.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	query := `
		UPDATE cards
		SET question = $2, answer = $3, tags = $4, success_count = $5, due_date = $6
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.Question,
		card.Answer,
		tags,
		card.SuccessCount,
		card.DueDate,
	)
	if err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		log.Debug("card not found for update", slog.String("card_id", card.ID.String()))
		return err
	}

	log.Info("card updated", slog.String("card_id", card.ID.String()))
	return nil
}

// Delete implements store.CardStore.Delete
// Returns store.ErrCardNotFound if the card does not exist.
func (s *CardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		log.Debug("card not found for deletion", slog.String("card_id", id.String()))
		return err
	}

	log.Info("card deleted", slog.String("card_id", id.String()))
	return nil
}

// List implements store.CardStore.List
// Cards come back ordered by due date then ID, matching the selector's
// serving order. A non-empty tag restricts rows via JSONB containment.
func (s *CardStore) List(ctx context.Context, tag string) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, question, answer, tags, success_count, due_date, created_at
		FROM cards
	`
	var args []any
	if tag != "" {
		query += ` WHERE tags @> $1`
		tagFilter, err := json.Marshal([]string{tag})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tag filter: %w", err)
		}
		args = append(args, tagFilter)
	}
	query += ` ORDER BY due_date, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.String("tag_filter", tag))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return cards, nil
}

// UpsertMany implements store.CardStore.UpsertMany
// All rows land in a single transaction when called on a plain connection;
// when already running inside a transaction the caller's scope is reused.
func (s *CardStore) UpsertMany(ctx context.Context, cards []*domain.Card) (store.UpsertSummary, error) {
	var summary store.UpsertSummary

	if db, ok := s.db.(*sql.DB); ok {
		err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			var txErr error
			summary, txErr = s.WithTx(tx).UpsertMany(ctx, cards)
			return txErr
		})
		return summary, err
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	// xmax = 0 distinguishes a fresh insert from a conflict update.
	query := `
		INSERT INTO cards (id, question, answer, tags, success_count, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET question = EXCLUDED.question,
		    answer = EXCLUDED.answer,
		    tags = EXCLUDED.tags,
		    success_count = EXCLUDED.success_count,
		    due_date = EXCLUDED.due_date
		RETURNING (xmax = 0) AS inserted
	`

	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return store.UpsertSummary{}, fmt.Errorf("%w: card %s: %v",
				store.ErrInvalidEntity, card.ID, err)
		}

		tags, err := json.Marshal(card.Tags)
		if err != nil {
			return store.UpsertSummary{}, fmt.Errorf("failed to marshal tags: %w", err)
		}

		var inserted bool
		err = s.db.QueryRowContext(
			ctx,
			query,
			card.ID,
			card.Question,
			card.Answer,
			tags,
			card.SuccessCount,
			card.DueDate,
			card.CreatedAt,
		).Scan(&inserted)
		if err != nil {
			log.Error("failed to upsert card",
				slog.String("error", err.Error()),
				slog.String("card_id", card.ID.String()))
			return store.UpsertSummary{}, MapError(err)
		}

		if inserted {
			summary.Inserted++
		} else {
			summary.Updated++
		}
	}

	log.Info("bulk card upsert completed",
		slog.Int("inserted", summary.Inserted),
		slog.Int("updated", summary.Updated))
	return summary, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var card domain.Card
	var tags []byte

	err := row.Scan(
		&card.ID,
		&card.Question,
		&card.Answer,
		&tags,
		&card.SuccessCount,
		&card.DueDate,
		&card.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tags, &card.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal card tags: %w", err)
	}

	return &card, nil
}
