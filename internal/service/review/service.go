package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mwhitby/recall-api/internal/domain"
	"github.com/mwhitby/recall-api/internal/domain/srs"
	"github.com/mwhitby/recall-api/internal/platform/logger"
	"github.com/mwhitby/recall-api/internal/store"
)

// ErrNoCardAvailable is returned by NextCard when the collection (after the
// optional tag filter) is empty. It is deliberately not returned merely
// because nothing is strictly due: selection always serves the earliest-due
// card from a non-empty collection.
var ErrNoCardAvailable = errors.New("no card available for review")

// Service implements the review workflow over a card store. Scheduling math
// lives in the srs package; this layer loads snapshots, applies an event,
// and persists the result as one logical step; on a failed save the
// computed state is discarded, never returned.
type Service struct {
	cards   store.CardStore
	session *Session
	now     func() time.Time
	logger  *slog.Logger
}

// NewService creates a review Service. now is the clock used for every
// scheduling decision; pass time.Now in production. If logger is nil, a
// default logger is used.
func NewService(cards store.CardStore, session *Session, now func() time.Time, logger *slog.Logger) *Service {
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

	return &Service{
		cards:   cards,
		session: session,
		now:     now,
		logger:  logger.With(slog.String("component", "review_service")),
	}
}

// NextCard returns the next card to review, optionally restricted to cards
// carrying tag (empty tag means no restriction). The returned card is
// recorded as the session's last served card. Returns ErrNoCardAvailable
// when no card matches.
func (s *Service) NextCard(ctx context.Context, tag string) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cards.List(ctx, tag)
	if err != nil {
		log.Error("failed to list cards for selection",
			slog.String("error", err.Error()),
			slog.String("tag_filter", tag))
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}

	now := s.now()
	var card *domain.Card
	if tag == "" {
		card = srs.NextDue(cards, now)
	} else {
		card = srs.NextDueByTag(cards, tag, now)
	}

	if card == nil {
		log.Debug("no card available", slog.String("tag_filter", tag))
		return nil, ErrNoCardAvailable
	}

	s.session.SetLastServed(card.ID)

	log.Debug("selected next card",
		slog.String("card_id", card.ID.String()),
		slog.String("tag_filter", tag),
		slog.Time("due_date", card.DueDate))
	return card, nil
}

// MarkSuccess records a successful review on the given card (or the last
// served card when explicitID is uuid.Nil) and advances its schedule one
// interval step. Returns the updated card.
func (s *Service) MarkSuccess(ctx context.Context, explicitID uuid.UUID) (*domain.Card, error) {
	return s.applyOutcome(ctx, explicitID, "success", func(sched srs.Schedule, now time.Time) srs.Schedule {
		return srs.OnSuccess(sched, now)
	})
}

// MarkFailure records a failed review on the given card (or the last served
// card when explicitID is uuid.Nil), resetting its progress to the shortest
// interval. Returns the updated card.
func (s *Service) MarkFailure(ctx context.Context, explicitID uuid.UUID) (*domain.Card, error) {
	return s.applyOutcome(ctx, explicitID, "failure", func(sched srs.Schedule, now time.Time) srs.Schedule {
		return srs.OnFailure(sched, now)
	})
}

// SetDueDate manually overrides the due date of the given card (or the last
// served card when explicitID is uuid.Nil). The timestamp is stored as-is;
// past values make the card immediately due.
func (s *Service) SetDueDate(ctx context.Context, explicitID uuid.UUID, due time.Time) (*domain.Card, error) {
	return s.applyOutcome(ctx, explicitID, "set_due_date", func(sched srs.Schedule, _ time.Time) srs.Schedule {
		return srs.OnSetDueDate(sched, due)
	})
}

// applyOutcome resolves the target card, applies the scheduling transition
// and persists the new snapshot.
func (s *Service) applyOutcome(
	ctx context.Context,
	explicitID uuid.UUID,
	operation string,
	transition func(srs.Schedule, time.Time) srs.Schedule,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	id, err := s.session.Resolve(explicitID)
	if err != nil {
		log.Warn("no target card for review outcome",
			slog.String("operation", operation))
		return nil, err
	}

	card, err := s.cards.GetByID(ctx, id)
	if err != nil {
		log.Warn("target card not found for review outcome",
			slog.String("error", err.Error()),
			slog.String("operation", operation),
			slog.String("card_id", id.String()))
		return nil, err
	}

	now := s.now()
	sched := transition(srs.Schedule{SuccessCount: card.SuccessCount, DueDate: card.DueDate}, now)

	updated := *card
	updated.SuccessCount = sched.SuccessCount
	updated.DueDate = sched.DueDate

	if err := s.cards.Update(ctx, &updated); err != nil {
		log.Error("failed to persist review outcome",
			slog.String("error", err.Error()),
			slog.String("operation", operation),
			slog.String("card_id", id.String()),
			slog.Time("at", now))
		return nil, fmt.Errorf("failed to persist %s: %w", operation, err)
	}

	log.Info("review outcome applied",
		slog.String("operation", operation),
		slog.String("card_id", id.String()),
		slog.Int("success_count", updated.SuccessCount),
		slog.Time("due_date", updated.DueDate))
	return &updated, nil
}
