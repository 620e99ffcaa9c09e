package utils

import (
	"context"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
)

// GetUserIDFromContext returns the opaque platform identity set by the identity middleware.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func SetUserContext(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}
