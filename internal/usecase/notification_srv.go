package usecase

import (
	"context"

	"boxing-booking/internal/data/repository"
	"boxing-booking/internal/dto/request"
	"boxing-booking/internal/dto/response"
	"boxing-booking/pkg/utils"

	"go.uber.org/zap"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 100
)

type NotificationService interface {
	List(ctx context.Context, userID string, query *request.NotificationListQuery) (*response.NotificationListResponse, error)
	MarkRead(ctx context.Context, userID string, req *request.MarkReadRequest) (*response.MarkReadResponse, error)
}

type notificationService struct {
	repo *repository.Repository
	opts Options
	log  *zap.Logger
}

func NewNotificationService(repo *repository.Repository, opts Options, log *zap.Logger) NotificationService {
	return &notificationService{
		repo: repo,
		opts: opts,
		log:  log.With(zap.String("service", "notification")),
	}
}

func (s *notificationService) List(ctx context.Context, userID string, query *request.NotificationListQuery) (*response.NotificationListResponse, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	limit := utils.ClampLimit(query.Limit, defaultNotificationLimit, maxNotificationLimit)

	list, err := s.repo.Notification.ListByRecipient(ctx, userID, query.IsRead, limit)
	if err != nil {
		appErr := storeError(err, ErrNotificationListFailed)
		logFailure(s.log, "Failed to list notifications", appErr, zap.String("user", utils.MaskID(userID)))
		return nil, appErr
	}
	unread, err := s.repo.Notification.CountUnread(ctx, userID)
	if err != nil {
		appErr := storeError(err, ErrNotificationListFailed)
		logFailure(s.log, "Failed to count unread notifications", appErr, zap.String("user", utils.MaskID(userID)))
		return nil, appErr
	}

	items := make([]response.NotificationItem, 0, len(list))
	for _, n := range list {
		items = append(items, response.NewNotificationItem(n))
	}

	return &response.NotificationListResponse{
		Notifications: items,
		Total:         len(items),
		UnreadCount:   unread,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID string, req *request.MarkReadRequest) (*response.MarkReadResponse, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	now := s.opts.now()
	fail := func(msg string, err error) (*response.MarkReadResponse, error) {
		appErr := storeError(err, ErrMarkReadFailed)
		logFailure(s.log, msg, appErr, zap.String("user", utils.MaskID(userID)))
		return nil, appErr
	}

	if req.MarkAllAsRead {
		updated, err := s.repo.Notification.MarkAllRead(ctx, userID, now)
		if err != nil {
			return fail("Failed to mark all notifications read", err)
		}
		s.log.Info("Notifications marked read", zap.String("user", utils.MaskID(userID)), zap.Int64("updated", updated))
		return &response.MarkReadResponse{Updated: &updated}, nil
	}

	if req.NotificationID == "" {
		return nil, ErrMarkReadTargetRequired
	}

	n, err := s.repo.Notification.FindByID(ctx, req.NotificationID)
	if err != nil {
		return fail("Failed to load notification", err)
	}
	if n == nil {
		return nil, ErrNotificationNotFound
	}
	if n.RecipientUserID != userID {
		return fail("Notification belongs to another user", ErrNotificationNotOwner)
	}

	if !n.IsRead {
		if err := s.repo.Notification.MarkRead(ctx, n.NotificationID, now); err != nil {
			return fail("Failed to mark notification read", err)
		}
	}

	return &response.MarkReadResponse{NotificationID: n.NotificationID, IsRead: true}, nil
}
