package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mwhitby/recall-api/internal/api"
	apiMiddleware "github.com/mwhitby/recall-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware) // Add trace IDs for improved error handling

	authMiddleware := apiMiddleware.NewAuthMiddleware(
		app.config.Auth.APIKey,
		app.config.Auth.APIKeyHash,
		app.logger,
	)

	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	documentHandler := api.NewDocumentHandler(app.documentService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		// Card management endpoints
		r.Post("/cards", cardHandler.CreateCard)
		r.Get("/cards/export", cardHandler.ExportCards)
		r.Post("/cards/import", cardHandler.ImportCards)
		r.Get("/cards/{id}", cardHandler.GetCard)
		r.Put("/cards/{id}", cardHandler.UpdateCard)
		r.Delete("/cards/{id}", cardHandler.DeleteCard)

		// Review endpoints
		r.Get("/reviews/next", reviewHandler.NextCard)
		r.Post("/reviews/success", reviewHandler.MarkSuccess)
		r.Post("/reviews/failure", reviewHandler.MarkFailure)
		r.Post("/reviews/due_date", reviewHandler.SetDueDate)

		// Document endpoints
		r.Post("/documents", documentHandler.CreateDocument)
		r.Get("/documents/titles", documentHandler.ListTitles)
		r.Get("/documents/titles/by_tags", documentHandler.ListTitlesByTags)
		r.Get("/documents/by_tags", documentHandler.ListByTags)
		r.Get("/documents/search", documentHandler.Search)
		r.Get("/documents/export", documentHandler.ExportDocuments)
		r.Post("/documents/import", documentHandler.ImportDocuments)
		r.Get("/documents/{title}", documentHandler.GetDocument)
		r.Put("/documents/{title}", documentHandler.UpdateDocument)
		r.Delete("/documents/{title}", documentHandler.DeleteDocument)
	})

	// Health check endpoint (public)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
