package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/roomiesplit/roomiesplit/internal/auth"
	"github.com/roomiesplit/roomiesplit/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey ContextKey = "user_id"
	// EmailKey is the context key for the authenticated user's email
	EmailKey ContextKey = "email"
)

// RequireAuth validates the Bearer token and stores the authenticated user
// identity on the request context. Requests without a valid token are
// rejected with 401.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, auth.ErrMissingToken.Error())
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				response.Unauthorized(w, auth.ErrInvalidToken.Error())
				return
			}

			userID, err := bson.ObjectIDFromHex(claims.UserID)
			if err != nil {
				response.Unauthorized(w, auth.ErrInvalidToken.Error())
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user ID from the request context
func GetUserID(ctx context.Context) (bson.ObjectID, bool) {
	userID, ok := ctx.Value(UserIDKey).(bson.ObjectID)
	return userID, ok
}

// GetEmail extracts the authenticated user's email from the request context
func GetEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok
}
