package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"boxing-booking/internal/data/entity"
	"boxing-booking/internal/data/repository"
)

type notificationRepo struct{ v *view }

func (r *notificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.notifications[n.NotificationID]; ok {
			return nil
		}
		st.notifications[n.NotificationID] = *n
		return nil
	})
}

func (r *notificationRepo) FindByID(ctx context.Context, notificationID string) (*entity.Notification, error) {
	var out *entity.Notification
	err := r.v.do(ctx, func(st *state) error {
		if n, ok := st.notifications[notificationID]; ok {
			out = &n
		}
		return nil
	})
	return out, err
}

func (r *notificationRepo) ListByRecipient(ctx context.Context, userID string, isRead *bool, limit int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	err := r.v.do(ctx, func(st *state) error {
		for _, n := range st.notifications {
			n := n
			if n.RecipientUserID != userID || n.Archived {
				continue
			}
			if isRead != nil && n.IsRead != *isRead {
				continue
			}
			out = append(out, &n)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].NotificationID < out[j].NotificationID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	unread := false
	list, err := r.ListByRecipient(ctx, userID, &unread, 0)
	return len(list), err
}

func (r *notificationRepo) MarkRead(ctx context.Context, notificationID string, now time.Time) error {
	return r.v.do(ctx, func(st *state) error {
		n, ok := st.notifications[notificationID]
		if !ok {
			return fmt.Errorf("notification %s: %w", notificationID, repository.ErrNotFound)
		}
		n.IsRead = true
		n.UpdatedAt = now
		st.notifications[notificationID] = n
		return nil
	})
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID string, now time.Time) (int64, error) {
	var updated int64
	err := r.v.do(ctx, func(st *state) error {
		for id, n := range st.notifications {
			if n.RecipientUserID != userID || n.IsRead {
				continue
			}
			n.IsRead = true
			n.UpdatedAt = now
			st.notifications[id] = n
			updated++
		}
		return nil
	})
	return updated, err
}

func (r *notificationRepo) ListStaleIDs(ctx context.Context, before time.Time) ([]string, error) {
	var ids []string
	err := r.v.do(ctx, func(st *state) error {
		for id, n := range st.notifications {
			if !n.Archived && n.CreatedAt.Before(before) {
				ids = append(ids, id)
			}
		}
		return nil
	})
	sort.Strings(ids)
	return ids, err
}

func (r *notificationRepo) Archive(ctx context.Context, notificationID string, now time.Time) (bool, error) {
	var changed bool
	err := r.v.do(ctx, func(st *state) error {
		n, ok := st.notifications[notificationID]
		if !ok || n.Archived {
			return nil
		}
		n.Archived = true
		n.ArchivedAt = &now
		n.UpdatedAt = now
		st.notifications[notificationID] = n
		changed = true
		return nil
	})
	return changed, err
}
