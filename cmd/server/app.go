package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mwhitby/recall-api/internal/config"
	"github.com/mwhitby/recall-api/internal/platform/postgres"
	"github.com/mwhitby/recall-api/internal/service"
	"github.com/mwhitby/recall-api/internal/service/review"
	"github.com/mwhitby/recall-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config

	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	cardStore     store.CardStore
	documentStore store.DocumentStore

	// Review session shared between the review and card services so card
	// deletion can invalidate a stale last-served reference.
	session *review.Session

	// Services
	reviewService   *review.Service
	cardService     *service.CardService
	documentService *service.DocumentService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) *application {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.cardStore = postgres.NewCardStore(db, logger)
	app.documentStore = postgres.NewDocumentStore(db, logger)

	app.session = review.NewSession()

	app.reviewService = review.NewService(app.cardStore, app.session, nil, logger)
	app.cardService = service.NewCardService(app.cardStore, app.session, nil, logger)
	app.documentService = service.NewDocumentService(app.documentStore, nil, logger)

	logger.Info("Application initialized successfully")
	return app
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
