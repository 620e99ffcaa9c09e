package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"boxing-booking/internal/data/repository"
	"boxing-booking/pkg/database"
	"boxing-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// GatewayUserHeader carries the caller identity when a trusted gateway sits in front.
const GatewayUserHeader = "X-User-ID"

// TokenDigest is the lookup key for a bearer token in the sessions table.
func TokenDigest(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Identity resolves the caller to a stable user id and stores it in the request context.
// With trustGateway set, a non-empty X-User-ID header is accepted as-is.
// The session lookup is bounded by queryTimeout; a timeout answers 503 with 9001.
func Identity(sessions repository.SessionRepository, trustGateway bool, queryTimeout time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if trustGateway {
				if userID := strings.TrimSpace(r.Header.Get(GatewayUserHeader)); userID != "" {
					next.ServeHTTP(w, r.WithContext(utils.SetUserContext(r.Context(), userID)))
					return
				}
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "missing authorization token")
				return
			}

			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				utils.ResponseUnauthorized(w, "invalid token format, use: Bearer <token>")
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
			session, err := sessions.FindValidSession(ctx, TokenDigest(token), time.Now())
			cancel()
			if err != nil {
				logger.Error("Failed to validate session",
					zap.String("path", r.URL.Path),
					zap.Error(err))
				if database.IsTimeout(err) {
					utils.ResponseUnavailable(w, utils.CodeStoreTimeout, "store call timed out, retry later")
					return
				}
				utils.ResponseInternalError(w, "internal server error")
				return
			}

			if session == nil {
				logger.Warn("Invalid or expired session", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "invalid or expired session")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetUserContext(r.Context(), session.UserID)))
		})
	}
}

// InternalToken guards operator endpoints with a shared secret header.
func InternalToken(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			given := r.Header.Get("X-Internal-Token")
			if secret == "" || subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
				logger.Warn("Internal endpoint access denied",
					zap.String("path", r.URL.Path),
					zap.String("ip", clientIP(r)))
				utils.ResponseUnauthorized(w, "invalid internal token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
