package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"boxing-booking/internal/data/entity"
	"boxing-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SessionRepository reads sessions issued by the platform auth layer. Rows are
// written and revoked by that layer, never by this service.
type SessionRepository interface {
	FindValidSession(ctx context.Context, tokenDigest string, now time.Time) (*entity.Session, error)
}

type sessionRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSessionRepository(db database.Querier, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "session")),
	}
}

func (r *sessionRepository) FindValidSession(ctx context.Context, tokenDigest string, now time.Time) (*entity.Session, error) {
	query := `
		SELECT token_digest, user_id, expires_at, revoked_at, created_at
		FROM sessions
		WHERE token_digest = $1
		  AND revoked_at IS NULL
		  AND expires_at > $2
	`

	var session entity.Session
	err := r.db.QueryRow(ctx, query, tokenDigest, now).Scan(
		&session.TokenDigest,
		&session.UserID,
		&session.ExpiresAt,
		&session.RevokedAt,
		&session.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid session", zap.Error(err))
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &session, nil
}
