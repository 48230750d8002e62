package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mwhitby/recall-api/internal/api/shared"
	"github.com/mwhitby/recall-api/internal/domain"
	"github.com/mwhitby/recall-api/internal/platform/logger"
	"github.com/mwhitby/recall-api/internal/redact"
)

// ReviewService is the review workflow surface the handler depends on.
// Passing uuid.Nil as the card ID targets the last served card.
type ReviewService interface {
	NextCard(ctx context.Context, tag string) (*domain.Card, error)
	MarkSuccess(ctx context.Context, explicitID uuid.UUID) (*domain.Card, error)
	MarkFailure(ctx context.Context, explicitID uuid.UUID) (*domain.Card, error)
	SetDueDate(ctx context.Context, explicitID uuid.UUID, due time.Time) (*domain.Card, error)
}

// ReviewHandler handles review-workflow HTTP requests: next-card selection
// and success/failure/due-date outcomes.
type ReviewHandler struct {
	reviews ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews ReviewService, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		reviews: reviews,
		logger:  logger.With(slog.String("component", "review_handler")),
	}
}

// NextCard handles GET /reviews/next requests.
// An optional ?tag= query parameter restricts selection to cards carrying
// that exact tag.
func (h *ReviewHandler) NextCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	tag := r.URL.Query().Get("tag")

	card, err := h.reviews.NextCard(r.Context(), tag)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("serving next review card",
		slog.String("card_id", card.ID.String()),
		slog.String("tag_filter", tag))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// ReviewOutcomeRequest represents the request body for success/failure
// outcomes. card_id is optional: when absent the last served card is used.
type ReviewOutcomeRequest struct {
	CardID string `json:"card_id,omitempty"`
}

// MarkSuccess handles POST /reviews/success requests
func (h *ReviewHandler) MarkSuccess(w http.ResponseWriter, r *http.Request) {
	h.handleOutcome(w, r, h.reviews.MarkSuccess)
}

// MarkFailure handles POST /reviews/failure requests
func (h *ReviewHandler) MarkFailure(w http.ResponseWriter, r *http.Request) {
	h.handleOutcome(w, r, h.reviews.MarkFailure)
}

// SetDueDateRequest represents the request body for a manual due-date
// override. The timestamp is applied as-is; a past value makes the card
// immediately due.
type SetDueDateRequest struct {
	CardID  string `json:"card_id,omitempty"`
	DueDate string `json:"due_date" validate:"required"`
}

// SetDueDate handles POST /reviews/due_date requests
func (h *ReviewHandler) SetDueDate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SetDueDateRequest
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

	id, err := parseOptionalCardID(req.CardID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID format")
		return
	}

	due, err := parseDueDate(req.DueDate)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	card, err := h.reviews.SetDueDate(r.Context(), id, due)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

func (h *ReviewHandler) handleOutcome(
	w http.ResponseWriter,
	r *http.Request,
	outcome func(ctx context.Context, explicitID uuid.UUID) (*domain.Card, error),
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	// An empty body is allowed: it means "the last served card".
	var req ReviewOutcomeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := shared.DecodeJSON(r, &req); err != nil {
			log.Warn("invalid request format", slog.String("error", redact.Error(err)))
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	id, err := parseOptionalCardID(req.CardID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID format")
		return
	}

	card, err := outcome(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}
