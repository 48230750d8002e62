package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mwhitby/recall-api/internal/api/shared"
	"github.com/mwhitby/recall-api/internal/domain"
	"github.com/mwhitby/recall-api/internal/platform/logger"
	"github.com/mwhitby/recall-api/internal/redact"
	"github.com/mwhitby/recall-api/internal/service"
	"github.com/mwhitby/recall-api/internal/store"
)

// CardService is the card lifecycle surface the handler depends on.
type CardService interface {
	Create(ctx context.Context, question, answer string, tags []string) (*domain.Card, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	Update(ctx context.Context, id uuid.UUID, update service.CardUpdate) (*domain.Card, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Export(ctx context.Context) ([]*domain.Card, error)
	Import(ctx context.Context, cards []*domain.Card) (store.UpsertSummary, error)
}

// CardHandler handles card CRUD and backup/restore HTTP requests.
type CardHandler struct {
	cards  CardService
	logger *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cards CardService, logger *slog.Logger) *CardHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		cards:  cards,
		logger: logger.With(slog.String("component", "card_handler")),
	}
}

// CreateCardRequest represents the request body for creating a card
type CreateCardRequest struct {
	Question string   `json:"question" validate:"required"`
	Answer   string   `json:"answer"   validate:"required"`
	Tags     []string `json:"tags"`
}

// CreateCard handles POST /cards requests
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	card, err := h.cards.Create(r.Context(), req.Question, req.Answer, req.Tags)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// GetCard handles GET /cards/{id} requests
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cardIDFromPath(w, r)
	if !ok {
		return
	}

	card, err := h.cards.Get(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// UpdateCardRequest represents the request body for a partial card update.
// Absent fields are left untouched; scheduling state never changes here.
type UpdateCardRequest struct {
	Question *string  `json:"question,omitempty"`
	Answer   *string  `json:"answer,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// UpdateCard handles PUT /cards/{id} requests
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.cardIDFromPath(w, r)
	if !ok {
		return
	}

	var req UpdateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("card_id", id.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Question == nil && req.Answer == nil && req.Tags == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No fields to update")
		return
	}

	card, err := h.cards.Update(r.Context(), id, service.CardUpdate{
		Question: req.Question,
		Answer:   req.Answer,
		Tags:     req.Tags,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// DeleteCard handles DELETE /cards/{id} requests
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cardIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.cards.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportCardsResponse wraps the full card collection for backup.
type ExportCardsResponse struct {
	Cards []CardResponse `json:"cards"`
}

// ExportCards handles GET /cards/export requests
func (h *CardHandler) ExportCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cards.Export(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ExportCardsResponse{Cards: cardsToResponses(cards)})
}

// ImportCardsRequest carries cards to restore. Every field including
// success_count and due_date is applied verbatim.
type ImportCardsRequest struct {
	Cards []CardResponse `json:"cards" validate:"required"`
}

// ImportCards handles POST /cards/import requests
func (h *CardHandler) ImportCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ImportCardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	now := time.Now().UTC()
	cards := make([]*domain.Card, 0, len(req.Cards))
	for _, c := range req.Cards {
		id, err := uuid.Parse(c.ID)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID format")
			return
		}
		cards = append(cards, &domain.Card{
			ID:           id,
			Question:     c.Question,
			Answer:       c.Answer,
			Tags:         c.Tags,
			SuccessCount: c.SuccessCount,
			DueDate:      c.DueDate,
			CreatedAt:    now,
		})
	}

	summary, err := h.cards.Import(r.Context(), cards)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// cardIDFromPath extracts and parses the {id} path parameter, writing an
// error response and returning false when it is missing or malformed.
func (h *CardHandler) cardIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	raw := chi.URLParam(r, "id")
	if raw == "" {
		log.Warn("card ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Card ID is required")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		log.Warn("invalid card ID format", slog.String("card_id", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID format")
		return uuid.Nil, false
	}

	return id, true
}
