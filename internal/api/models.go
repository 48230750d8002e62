package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mwhitby/recall-api/internal/domain"
)

// CardResponse is the wire representation of a card. This field set is also
// the authoritative backup/restore layout: import preserves success_count
// and due_date verbatim.
type CardResponse struct {
	ID           string    `json:"id"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	Tags         []string  `json:"tags"`
	SuccessCount int       `json:"success_count"`
	DueDate      time.Time `json:"due_date"`
}

func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:           card.ID.String(),
		Question:     card.Question,
		Answer:       card.Answer,
		Tags:         card.Tags,
		SuccessCount: card.SuccessCount,
		DueDate:      card.DueDate,
	}
}

func cardsToResponses(cards []*domain.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardToResponse(c))
	}
	return out
}

// DocumentResponse is the wire representation of a document.
type DocumentResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func documentToResponse(doc *domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:        doc.ID.String(),
		Title:     doc.Title,
		Content:   doc.Content,
		Tags:      doc.Tags,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func documentsToResponses(docs []*domain.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentToResponse(d))
	}
	return out
}

// dueDateLayouts are the accepted due-date formats: RFC 3339 first, then a
// bare ISO-8601 timestamp without zone (treated as UTC) for compatibility
// with hand-written payloads.
var dueDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

// parseDueDate parses an ISO-8601 due date string.
// Returns domain.ErrInvalidDueDate when no layout matches.
func parseDueDate(s string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDueDate, s)
}

// parseOptionalCardID parses an optional card ID string. An empty string
// resolves to uuid.Nil, which downstream means "use the review session".
func parseOptionalCardID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrInvalidID, err)
	}
	return id, nil
}
