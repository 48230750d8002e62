package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mwhitby/recall-api/internal/domain"
	"github.com/mwhitby/recall-api/internal/domain/srs"
	"github.com/mwhitby/recall-api/internal/platform/logger"
	"github.com/mwhitby/recall-api/internal/service/review"
	"github.com/mwhitby/recall-api/internal/store"
)

// CardUpdate carries the optional fields of a partial card update. Nil
// fields are left untouched; scheduling state is never modified here.
type CardUpdate struct {
	Question *string
	Answer   *string
	Tags     []string
}

// CardService handles card lifecycle operations: create, fetch, partial
// update, delete and bulk export/import.
type CardService struct {
	cards   store.CardStore
	session *review.Session
	now     func() time.Time
	logger  *slog.Logger
}

// NewCardService creates a CardService. The session is consulted on delete
// so the review session never points at a removed card. If logger is nil, a
// default logger is used.
func NewCardService(cards store.CardStore, session *review.Session, now func() time.Time, logger *slog.Logger) *CardService {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if session == nil {
		panic("session cannot be nil")
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CardService{
		cards:   cards,
		session: session,
		now:     now,
		logger:  logger.With(slog.String("component", "card_service")),
	}
}

// Create builds a new card from the given fields, applies the scheduler's
// creation rule (due after the shortest interval, never immediately), and
// persists it.
func (s *CardService) Create(ctx context.Context, question, answer string, tags []string) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.now()
	card, err := domain.NewCard(question, answer, tags, now)
	if err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	sched := srs.OnCreate(now)
	card.SuccessCount = sched.SuccessCount
	card.DueDate = sched.DueDate

	if err := s.cards.Create(ctx, card); err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return nil, err
	}

	return card, nil
}

// Get fetches a card by ID.
func (s *CardService) Get(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return s.cards.GetByID(ctx, id)
}

// Update applies a field-level partial update. Scheduling fields
// (success_count, due_date) are untouched.
func (s *CardService) Update(ctx context.Context, id uuid.UUID, update CardUpdate) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cards.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *card
	if update.Question != nil {
		updated.Question = *update.Question
	}
	if update.Answer != nil {
		updated.Answer = *update.Answer
	}
	if update.Tags != nil {
		updated.Tags = update.Tags
	}

	if err := updated.Validate(); err != nil {
		log.Warn("card validation failed during update",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.cards.Update(ctx, &updated); err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, err
	}

	return &updated, nil
}

// Delete removes a card and clears the review session if it pointed at it.
func (s *CardService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.cards.Delete(ctx, id); err != nil {
		return err
	}

	s.session.Forget(id)
	return nil
}

// Export returns all cards with their full field set, including scheduling
// state, for backup.
func (s *CardService) Export(ctx context.Context) ([]*domain.Card, error) {
	cards, err := s.cards.List(ctx, "")
	if err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []*domain.Card{}
	}
	return cards, nil
}

// Import bulk-upserts the given cards by ID, preserving success_count and
// due_date verbatim so export followed by import is idempotent.
func (s *CardService) Import(ctx context.Context, cards []*domain.Card) (store.UpsertSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	summary, err := s.cards.UpsertMany(ctx, cards)
	if err != nil {
		log.Error("bulk card import failed",
			slog.String("error", err.Error()),
			slog.Int("total", len(cards)))
		return store.UpsertSummary{}, err
	}

	log.Info("bulk card import completed",
		slog.Int("inserted", summary.Inserted),
		slog.Int("updated", summary.Updated))
	return summary, nil
}
