package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/duscraft/garry/internal/http/response"
	"github.com/duscraft/garry/internal/security"
)

type contextKey struct{ name string }

var userIDKey = &contextKey{"user_id"}

// AuthRequired verifies the Authorization bearer token and stashes the
// caller identity in the request context. Every failure collapses to
// the same 401 body.
func AuthRequired(jwtMgr *security.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Missing authorization header")
				return
			}
			raw := strings.TrimPrefix(authHeader, "Bearer ")
			if raw == authHeader || raw == "" {
				response.Unauthorized(w, "Invalid authorization format")
				return
			}
			userID, err := jwtMgr.Parse(raw)
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the caller identity set by AuthRequired.
func UserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok && v != ""
}
