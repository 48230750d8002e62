package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mwhitby/recall-api/internal/domain"
	"github.com/mwhitby/recall-api/internal/service/review"
	"github.com/mwhitby/recall-api/internal/store"
)

// mockCardStore is a mock implementation of the store.CardStore interface
type mockCardStore struct {
	createFn     func(ctx context.Context, card *domain.Card) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	updateFn     func(ctx context.Context, card *domain.Card) error
	deleteFn     func(ctx context.Context, id uuid.UUID) error
	listFn       func(ctx context.Context, tag string) ([]*domain.Card, error)
	upsertManyFn func(ctx context.Context, cards []*domain.Card) (store.UpsertSummary, error)
}

func (m *mockCardStore) Create(ctx context.Context, card *domain.Card) error {
	return m.createFn(ctx, card)
}

func (m *mockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockCardStore) Update(ctx context.Context, card *domain.Card) error {
	return m.updateFn(ctx, card)
}

func (m *mockCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func (m *mockCardStore) List(ctx context.Context, tag string) ([]*domain.Card, error) {
	return m.listFn(ctx, tag)
}

func (m *mockCardStore) UpsertMany(ctx context.Context, cards []*domain.Card) (store.UpsertSummary, error) {
	return m.upsertManyFn(ctx, cards)
}

func (m *mockCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return m
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func strPtr(s string) *string { return &s }

func TestCardServiceCreate(t *testing.T) {
	t.Parallel() // Enable parallel execution

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("new card is scheduled 30 minutes out", func(t *testing.T) {
		var saved *domain.Card
		svc := NewCardService(&mockCardStore{
			createFn: func(ctx context.Context, card *domain.Card) error {
				saved = card
				return nil
			},
		}, review.NewSession(), fixedClock(now), nil)

		card, err := svc.Create(context.Background(), "What is Go?", "A language", []string{"go"})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if card.SuccessCount != 0 {
			t.Errorf("Expected success count 0, got %d", card.SuccessCount)
		}
		expectedDue := now.Add(30 * time.Minute)
		if !card.DueDate.Equal(expectedDue) {
			t.Errorf("Expected due date %v, got %v", expectedDue, card.DueDate)
		}
		if saved == nil {
			t.Fatal("Expected card to be persisted")
		}
		if saved.ID == uuid.Nil {
			t.Error("Expected persisted card to have an ID")
		}
	})

	t.Run("validation failure maps to ErrValidation", func(t *testing.T) {
		svc := NewCardService(&mockCardStore{}, review.NewSession(), fixedClock(now), nil)

		_, err := svc.Create(context.Background(), "", "answer", nil)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Expected ErrValidation, got %v", err)
		}
	})
}

func TestCardServiceUpdate(t *testing.T) {
	t.Parallel() // Enable parallel execution

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	cardID := uuid.New()
	due := now.Add(7 * 24 * time.Hour)

	existing := func() *domain.Card {
		return &domain.Card{
			ID:           cardID,
			Question:     "old question",
			Answer:       "old answer",
			Tags:         []string{"old"},
			SuccessCount: 3,
			DueDate:      due,
		}
	}

	t.Run("partial update leaves scheduling untouched", func(t *testing.T) {
		var saved *domain.Card
		svc := NewCardService(&mockCardStore{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
				return existing(), nil
			},
			updateFn: func(ctx context.Context, card *domain.Card) error {
				saved = card
				return nil
			},
		}, review.NewSession(), fixedClock(now), nil)

		card, err := svc.Update(context.Background(), cardID, CardUpdate{
			Question: strPtr("new question"),
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if card.Question != "new question" {
			t.Errorf("Expected updated question, got %q", card.Question)
		}
		if card.Answer != "old answer" {
			t.Errorf("Expected answer untouched, got %q", card.Answer)
		}
		if card.SuccessCount != 3 {
			t.Errorf("Expected success count untouched at 3, got %d", card.SuccessCount)
		}
		if !card.DueDate.Equal(due) {
			t.Errorf("Expected due date untouched at %v, got %v", due, card.DueDate)
		}
		if saved == nil {
			t.Fatal("Expected updated card to be persisted")
		}
	})

	t.Run("tags can be replaced", func(t *testing.T) {
		svc := NewCardService(&mockCardStore{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
				return existing(), nil
			},
			updateFn: func(ctx context.Context, card *domain.Card) error { return nil },
		}, review.NewSession(), fixedClock(now), nil)

		card, err := svc.Update(context.Background(), cardID, CardUpdate{
			Tags: []string{"fresh"},
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(card.Tags) != 1 || card.Tags[0] != "fresh" {
			t.Errorf("Expected tags [fresh], got %v", card.Tags)
		}
	})

	t.Run("update of a missing card", func(t *testing.T) {
		svc := NewCardService(&mockCardStore{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
				return nil, store.ErrCardNotFound
			},
		}, review.NewSession(), fixedClock(now), nil)

		_, err := svc.Update(context.Background(), cardID, CardUpdate{Question: strPtr("q")})
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("emptying the question fails validation", func(t *testing.T) {
		svc := NewCardService(&mockCardStore{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
				return existing(), nil
			},
		}, review.NewSession(), fixedClock(now), nil)

		_, err := svc.Update(context.Background(), cardID, CardUpdate{Question: strPtr("")})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Expected ErrValidation, got %v", err)
		}
	})
}

func TestCardServiceDelete(t *testing.T) {
	t.Parallel() // Enable parallel execution

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	cardID := uuid.New()

	t.Run("delete clears a session pointing at the card", func(t *testing.T) {
		session := review.NewSession()
		session.SetLastServed(cardID)

		svc := NewCardService(&mockCardStore{
			deleteFn: func(ctx context.Context, id uuid.UUID) error { return nil },
		}, session, fixedClock(now), nil)

		if err := svc.Delete(context.Background(), cardID); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if _, ok := session.LastServed(); ok {
			t.Error("Expected session cleared after deleting the served card")
		}
	})

	t.Run("delete of another card leaves the session alone", func(t *testing.T) {
		session := review.NewSession()
		session.SetLastServed(cardID)

		svc := NewCardService(&mockCardStore{
			deleteFn: func(ctx context.Context, id uuid.UUID) error { return nil },
		}, session, fixedClock(now), nil)

		if err := svc.Delete(context.Background(), uuid.New()); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if served, ok := session.LastServed(); !ok || served != cardID {
			t.Error("Expected session to survive deleting an unrelated card")
		}
	})

	t.Run("failed delete keeps the session", func(t *testing.T) {
		session := review.NewSession()
		session.SetLastServed(cardID)

		svc := NewCardService(&mockCardStore{
			deleteFn: func(ctx context.Context, id uuid.UUID) error {
				return store.ErrCardNotFound
			},
		}, session, fixedClock(now), nil)

		err := svc.Delete(context.Background(), cardID)
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}

		if _, ok := session.LastServed(); !ok {
			t.Error("Expected session untouched after failed delete")
		}
	})
}

func TestCardServiceExportImport(t *testing.T) {
	t.Parallel() // Enable parallel execution

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("export returns empty slice for empty store", func(t *testing.T) {
		svc := NewCardService(&mockCardStore{
			listFn: func(ctx context.Context, tag string) ([]*domain.Card, error) {
				return nil, nil
			},
		}, review.NewSession(), fixedClock(now), nil)

		cards, err := svc.Export(context.Background())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cards == nil {
			t.Error("Expected non-nil slice")
		}
		if len(cards) != 0 {
			t.Errorf("Expected empty slice, got %d cards", len(cards))
		}
	})

	t.Run("import passes cards through and reports the summary", func(t *testing.T) {
		incoming := []*domain.Card{
			{
				ID:           uuid.New(),
				Question:     "q",
				Answer:       "a",
				Tags:         []string{},
				SuccessCount: 5,
				DueDate:      now.Add(30 * 24 * time.Hour),
			},
		}

		var received []*domain.Card
		svc := NewCardService(&mockCardStore{
			upsertManyFn: func(ctx context.Context, cards []*domain.Card) (store.UpsertSummary, error) {
				received = cards
				return store.UpsertSummary{Inserted: 1, Updated: 0}, nil
			},
		}, review.NewSession(), fixedClock(now), nil)

		summary, err := svc.Import(context.Background(), incoming)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if summary.Inserted != 1 || summary.Updated != 0 {
			t.Errorf("Expected summary {1 0}, got %+v", summary)
		}
		if len(received) != 1 {
			t.Fatalf("Expected 1 card passed to the store, got %d", len(received))
		}
		// Scheduling state travels verbatim so restore round-trips.
		if received[0].SuccessCount != 5 {
			t.Errorf("Expected success count preserved at 5, got %d", received[0].SuccessCount)
		}
	})
}
