package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mwhitby/recall-api/internal/domain"
	"github.com/mwhitby/recall-api/internal/service/review"
	"github.com/mwhitby/recall-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found: unknown entities, empty selections, and id-less outcome
	// calls with no prior selection all surface as not-found responses.
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, review.ErrNoCardAvailable),
		errors.Is(err, review.ErrNoActiveSession):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidDueDate),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrDocumentNotFound):
		return "Document not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, review.ErrNoCardAvailable):
		return "No card available for review"

	case errors.Is(err, review.ErrNoActiveSession):
		return "No active review session"

	case errors.Is(err, store.ErrTitleExists):
		return "A document with this title already exists"

	case errors.Is(err, store.ErrDuplicate):
		return "Already exists"

	case errors.Is(err, domain.ErrInvalidDueDate):
		return "Invalid due date format, use ISO-8601"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid input"

	default:
		return "An internal error occurred"
	}
}

// SanitizeValidationError converts validator errors into a client-safe
// message naming the offending fields without echoing their values.
func SanitizeValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation error"
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s (%s)",
			strings.ToLower(fieldErr.Field()), fieldErr.Tag()))
	}
	return "Validation failed: " + strings.Join(fields, ", ")
}
