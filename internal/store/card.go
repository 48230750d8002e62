package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/mwhitby/recall-api/internal/domain"
)

// UpsertSummary reports the outcome of a bulk upsert: how many entities were
// newly inserted and how many existing ones were overwritten.
type UpsertSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a new card to the store.
	// The card must be valid according to domain validation rules.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// Update overwrites an existing card with the given snapshot.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// Delete removes a card from the store by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns all cards, or only those carrying the given tag when tag
	// is non-empty. Tag matching is exact and case-sensitive. An unknown tag
	// yields an empty slice, not an error.
	List(ctx context.Context, tag string) ([]*domain.Card, error)

	// UpsertMany inserts or overwrites the given cards by ID, preserving all
	// fields including success_count and due_date verbatim. The operation is
	// atomic: either every card lands or none do.
	UpsertMany(ctx context.Context, cards []*domain.Card) (UpsertSummary, error)

	// WithTx returns a CardStore bound to the provided transaction, so
	// multiple operations can share one transactional scope managed by the
	// caller.
	WithTx(tx *sql.Tx) CardStore
}
