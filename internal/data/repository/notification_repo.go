package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"boxing-booking/internal/data/entity"
	"boxing-booking/pkg/database"
	"boxing-booking/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	FindByID(ctx context.Context, notificationID string) (*entity.Notification, error)
	ListByRecipient(ctx context.Context, userID string, isRead *bool, limit int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, notificationID string, now time.Time) error
	MarkAllRead(ctx context.Context, userID string, now time.Time) (int64, error)

	ListStaleIDs(ctx context.Context, before time.Time) ([]string, error)
	Archive(ctx context.Context, notificationID string, now time.Time) (bool, error)
}

type notificationRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewNotificationRepository(db database.Querier, log *zap.Logger) NotificationRepository {
	return &notificationRepository{
		db:  db,
		log: log.With(zap.String("repository", "notification")),
	}
}

const notificationColumns = `notification_id, recipient_user_id, type, title, content, related_slot_id,
	related_boxer_id, is_read, archived, archived_at, created_at, updated_at`

func scanNotification(row scanner) (*entity.Notification, error) {
	var n entity.Notification
	err := row.Scan(
		&n.NotificationID,
		&n.RecipientUserID,
		&n.Type,
		&n.Title,
		&n.Content,
		&n.RelatedSlotID,
		&n.RelatedBoxerID,
		&n.IsRead,
		&n.Archived,
		&n.ArchivedAt,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (notification_id, recipient_user_id, type, title, content,
		                           related_slot_id, related_boxer_id, is_read, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (notification_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		n.NotificationID,
		n.RecipientUserID,
		n.Type,
		n.Title,
		n.Content,
		n.RelatedSlotID,
		n.RelatedBoxerID,
		n.IsRead,
		n.CreatedAt,
		n.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create notification",
			zap.Error(err),
			zap.String("notification_id", n.NotificationID),
			zap.String("recipient", utils.MaskID(n.RecipientUserID)),
		)
		return fmt.Errorf("create notification %s: %w", n.NotificationID, err)
	}

	return nil
}

func (r *notificationRepository) FindByID(ctx context.Context, notificationID string) (*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE notification_id = $1`

	n, err := scanNotification(r.db.QueryRow(ctx, query, notificationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find notification by ID",
			zap.Error(err),
			zap.String("notification_id", notificationID),
		)
		return nil, fmt.Errorf("find notification by ID %s: %w", notificationID, err)
	}
	return n, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, userID string, isRead *bool, limit int) ([]*entity.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE recipient_user_id = $1 AND archived = FALSE
		  AND ($2::boolean IS NULL OR is_read = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, userID, isRead, limit)
	if err != nil {
		r.log.Error("Failed to list notifications",
			zap.Error(err),
			zap.String("recipient", utils.MaskID(userID)),
		)
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var list []*entity.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			r.log.Error("Failed to scan notification row", zap.Error(err))
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		list = append(list, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM notifications
		WHERE recipient_user_id = $1 AND is_read = FALSE AND archived = FALSE
	`

	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count unread notifications",
			zap.Error(err),
			zap.String("recipient", utils.MaskID(userID)),
		)
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, notificationID string, now time.Time) error {
	query := `UPDATE notifications SET is_read = TRUE, updated_at = $2 WHERE notification_id = $1`

	result, err := r.db.Exec(ctx, query, notificationID, now)
	if err != nil {
		r.log.Error("Failed to mark notification read",
			zap.Error(err),
			zap.String("notification_id", notificationID),
		)
		return fmt.Errorf("mark notification %s read: %w", notificationID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", notificationID, ErrNotFound)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string, now time.Time) (int64, error) {
	query := `
		UPDATE notifications SET is_read = TRUE, updated_at = $2
		WHERE recipient_user_id = $1 AND is_read = FALSE
	`

	result, err := r.db.Exec(ctx, query, userID, now)
	if err != nil {
		r.log.Error("Failed to mark all notifications read",
			zap.Error(err),
			zap.String("recipient", utils.MaskID(userID)),
		)
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *notificationRepository) ListStaleIDs(ctx context.Context, before time.Time) ([]string, error) {
	query := `SELECT notification_id FROM notifications WHERE created_at < $1 AND archived = FALSE`
	return collectIDs(ctx, r.db, r.log, "list stale notifications", query, before)
}

func (r *notificationRepository) Archive(ctx context.Context, notificationID string, now time.Time) (bool, error) {
	query := `
		UPDATE notifications
		SET archived = TRUE, archived_at = $2, updated_at = $2
		WHERE notification_id = $1 AND archived = FALSE
	`

	result, err := r.db.Exec(ctx, query, notificationID, now)
	if err != nil {
		r.log.Error("Failed to archive notification",
			zap.Error(err),
			zap.String("notification_id", notificationID),
		)
		return false, fmt.Errorf("archive notification %s: %w", notificationID, err)
	}
	return result.RowsAffected() > 0, nil
}
