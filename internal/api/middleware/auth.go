package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/mwhitby/recall-api/internal/api/shared"
)

// APIKeyHeader is the request header carrying the client's API key.
const APIKeyHeader = "X-API-Key"

// AuthMiddleware provides API-key authentication for routes. The expected
// key is supplied either as a bcrypt hash (preferred for production config)
// or as a plaintext key compared in constant time.
type AuthMiddleware struct {
	key     string
	keyHash string
	logger  *slog.Logger
}

// NewAuthMiddleware creates an AuthMiddleware. Exactly one of key or
// keyHash is expected to be non-empty; when both are set the hash wins.
func NewAuthMiddleware(key, keyHash string, logger *slog.Logger) *AuthMiddleware {
	if key == "" && keyHash == "" {
		panic("either an API key or an API key hash must be configured")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthMiddleware{
		key:     key,
		keyHash: keyHash,
		logger:  logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate validates the X-API-Key header and rejects requests carrying
// a missing or wrong key. The provided key is never logged.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provided := r.Header.Get(APIKeyHeader)
		if provided == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "API key required")
			return
		}

		if !m.matches(provided) {
			m.logger.Warn("authentication failed",
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) matches(provided string) bool {
	if m.keyHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(m.keyHash), []byte(provided)) == nil
	}

	// Hash both sides so the comparison is constant-time even for keys of
	// different lengths.
	want := sha256.Sum256([]byte(m.key))
	got := sha256.Sum256([]byte(provided))
	return subtle.ConstantTimeCompare(want[:], got[:]) == 1
}
