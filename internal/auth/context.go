package auth

import (
	"context"

	"github.com/postdost/postdost/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// userContextKey is the context key for storing the authenticated user.
	userContextKey contextKey = "auth_user"
)

// ContextWithUser adds the authenticated user's claims to the context.
func ContextWithUser(ctx context.Context, user model.TokenClaims) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the authenticated user from the context.
// The second return is false if no user is present.
func UserFromContext(ctx context.Context) (model.TokenClaims, bool) {
	user, ok := ctx.Value(userContextKey).(model.TokenClaims)
	return user, ok
}

// UserIDFromContext is a convenience function to get the user ID from context.
// Returns empty string if not authenticated.
func UserIDFromContext(ctx context.Context) string {
	user, ok := UserFromContext(ctx)
	if !ok {
		return ""
	}
	return user.UserID
}
