package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
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

// DocumentService is the knowledge-base surface the handler depends on.
type DocumentService interface {
	Create(ctx context.Context, title, content string, tags []string) (*domain.Document, error)
	Get(ctx context.Context, title string) (*domain.Document, error)
	Update(ctx context.Context, title string, update service.DocumentUpdate) (*domain.Document, error)
	Delete(ctx context.Context, title string) error
	Titles(ctx context.Context) ([]string, error)
	TitlesByTags(ctx context.Context, tags []string) ([]string, error)
	ByTags(ctx context.Context, tags []string) ([]*domain.Document, error)
	Search(ctx context.Context, query string) ([]string, error)
	Export(ctx context.Context) ([]*domain.Document, error)
	Import(ctx context.Context, docs []*domain.Document) (store.UpsertSummary, error)
}

// DocumentHandler handles knowledge-base document HTTP requests.
type DocumentHandler struct {
	docs   DocumentService
	logger *slog.Logger
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(docs DocumentService, logger *slog.Logger) *DocumentHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DocumentHandler")
	}

	return &DocumentHandler{
		docs:   docs,
		logger: logger.With(slog.String("component", "document_handler")),
	}
}

// CreateDocumentRequest represents the request body for creating a document
type CreateDocumentRequest struct {
	Title   string   `json:"title"   validate:"required"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags"`
}

// CreateDocument handles POST /documents requests
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateDocumentRequest
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

	doc, err := h.docs.Create(r.Context(), req.Title, req.Content, req.Tags)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, documentToResponse(doc))
}

// GetDocument handles GET /documents/{title} requests
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	title, ok := h.titleFromPath(w, r)
	if !ok {
		return
	}

	doc, err := h.docs.Get(r.Context(), title)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, documentToResponse(doc))
}

// UpdateDocumentRequest represents the request body for a partial document
// update. Absent fields are left untouched.
type UpdateDocumentRequest struct {
	Content *string  `json:"content,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// UpdateDocument handles PUT /documents/{title} requests
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	title, ok := h.titleFromPath(w, r)
	if !ok {
		return
	}

	var req UpdateDocumentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("title", title))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Content == nil && req.Tags == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No fields to update")
		return
	}

	doc, err := h.docs.Update(r.Context(), title, service.DocumentUpdate{
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, documentToResponse(doc))
}

// DeleteDocument handles DELETE /documents/{title} requests
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	title, ok := h.titleFromPath(w, r)
	if !ok {
		return
	}

	if err := h.docs.Delete(r.Context(), title); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TitlesResponse wraps a list of document titles.
type TitlesResponse struct {
	Titles []string `json:"titles"`
}

// ListTitles handles GET /documents/titles requests
func (h *DocumentHandler) ListTitles(w http.ResponseWriter, r *http.Request) {
	titles, err := h.docs.Titles(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TitlesResponse{Titles: titles})
}

// ListTitlesByTags handles GET /documents/titles/by_tags?tags=a,b requests
func (h *DocumentHandler) ListTitlesByTags(w http.ResponseWriter, r *http.Request) {
	tags, ok := h.tagsFromQuery(w, r)
	if !ok {
		return
	}

	titles, err := h.docs.TitlesByTags(r.Context(), tags)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TitlesResponse{Titles: titles})
}

// DocumentsResponse wraps a list of documents.
type DocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

// ListByTags handles GET /documents/by_tags?tags=a,b requests
func (h *DocumentHandler) ListByTags(w http.ResponseWriter, r *http.Request) {
	tags, ok := h.tagsFromQuery(w, r)
	if !ok {
		return
	}

	docs, err := h.docs.ByTags(r.Context(), tags)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DocumentsResponse{Documents: documentsToResponses(docs)})
}

// Search handles GET /documents/search?query=... requests
func (h *DocumentHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Search query is required")
		return
	}

	titles, err := h.docs.Search(r.Context(), query)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TitlesResponse{Titles: titles})
}

// ExportDocuments handles GET /documents/export requests
func (h *DocumentHandler) ExportDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.Export(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DocumentsResponse{Documents: documentsToResponses(docs)})
}

// ImportDocumentsRequest carries documents to restore, upserted by title.
type ImportDocumentsRequest struct {
	Documents []struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	} `json:"documents" validate:"required"`
}

// ImportDocuments handles POST /documents/import requests
func (h *DocumentHandler) ImportDocuments(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ImportDocumentsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	now := time.Now().UTC()
	docs := make([]*domain.Document, 0, len(req.Documents))
	for _, d := range req.Documents {
		tags := d.Tags
		if tags == nil {
			tags = []string{}
		}
		docs = append(docs, &domain.Document{
			ID:        uuid.New(),
			Title:     d.Title,
			Content:   d.Content,
			Tags:      tags,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	summary, err := h.docs.Import(r.Context(), docs)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

func (h *DocumentHandler) titleFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	title := chi.URLParam(r, "title")
	if title == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Document title is required")
		return "", false
	}
	return title, true
}

// tagsFromQuery parses the comma-separated ?tags= query parameter.
func (h *DocumentHandler) tagsFromQuery(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	raw := r.URL.Query().Get("tags")
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Tags parameter is required")
		return nil, false
	}

	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Tags parameter is required")
		return nil, false
	}

	return tags, true
}
