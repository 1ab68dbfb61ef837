package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/apperror"
	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/config"
)

// ContextKey is a dedicated type for context keys to avoid collisions.
type ContextKey string

// UserIDKey is the context key under which the authenticated user's id is stored.
const UserIDKey ContextKey = "userID"

// JWTMiddleware gates requests on a valid bearer token. Missing, malformed,
// or expired tokens are rejected before the request reaches any handler; on
// success the user id is placed in the request context.
func JWTMiddleware(cfg config.AuthConfig) func(next http.Handler) http.Handler {
	tokens := NewTokenIssuer(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, apperror.NewAuthenticationError("authorization header is missing", nil))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				WriteError(w, r, apperror.NewAuthenticationError("authorization header format must be Bearer {token}", nil))
				return
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				WriteError(w, r, apperror.NewAuthenticationError("invalid or expired token", err))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext retrieves the authenticated user id set by
// JWTMiddleware. The second return value reports whether it was present.
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDKey).(int)
	return userID, ok
}
