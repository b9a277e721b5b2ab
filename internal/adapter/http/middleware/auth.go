package middleware

import (
	"net/http"
	"strings"

	"github.com/iho/loanledger/internal/domain"
	"github.com/iho/loanledger/internal/infrastructure/auth"
)

// CallerIDHeader is the development identity header honored when JWT
// verification is disabled.
const CallerIDHeader = "X-Caller-Id"

// AuthMiddleware resolves the caller identity for each request. With a
// JWT manager it requires a valid Bearer token; without one it falls
// back to the plain identity header.
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
}

// NewAuthMiddleware creates a new AuthMiddleware. A nil jwtManager
// disables token verification.
func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// Wrap wraps an http.Handler with caller resolution.
func (m *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := m.resolve(w, r)
		if !ok {
			return
		}

		ctx := domain.ContextWithCaller(r.Context(), caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) resolve(w http.ResponseWriter, r *http.Request) (domain.Caller, bool) {
	if m.jwtManager == nil {
		id := r.Header.Get(CallerIDHeader)
		if id == "" {
			http.Error(w, "missing caller identity header", http.StatusUnauthorized)
			return domain.Caller{}, false
		}
		return domain.Caller{ID: id}, true
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		http.Error(w, "missing authorization header", http.StatusUnauthorized)
		return domain.Caller{}, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
		return domain.Caller{}, false
	}

	caller, err := m.jwtManager.Verify(parts[1])
	if err != nil {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return domain.Caller{}, false
	}

	return caller, true
}
