package entity

import (
	"time"
)

// Session is a platform login issued by the external auth layer. Only the
// digest of the bearer token is stored.
type Session struct {
	TokenDigest string     `db:"token_digest"`
	UserID      string     `db:"user_id"`
	ExpiresAt   time.Time  `db:"expires_at"`
	RevokedAt   *time.Time `db:"revoked_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

func (s *Session) Valid(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
