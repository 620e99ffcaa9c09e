package usecase

import (
	"context"
	"testing"
	"time"

	"boxing-booking/internal/data/entity"
	"boxing-booking/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) seedNotification(t *testing.T, id, recipient string, createdAt time.Time) {
	t.Helper()
	n := &entity.Notification{
		NotificationID:  id,
		RecipientUserID: recipient,
		Type:            entity.NotificationNewBooking,
		Title:           "New booking",
		Content:         "A boxer joined your slot",
	}
	n.CreatedAt = createdAt
	n.UpdatedAt = createdAt
	require.NoError(t, f.repo.Notification.Create(context.Background(), n))
}

func TestNotificationList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedNotification(t, "notif_old", "gym-user", testNow.Add(-2*time.Hour))
	f.seedNotification(t, "notif_new", "gym-user", testNow.Add(-time.Hour))
	f.seedNotification(t, "notif_other", "someone", testNow)

	list, err := f.svc.Notification.List(ctx, "gym-user", &request.NotificationListQuery{})
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "notif_new", list.Notifications[0].NotificationID)
	assert.Equal(t, 2, list.UnreadCount)

	limited, err := f.svc.Notification.List(ctx, "gym-user", &request.NotificationListQuery{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, limited.Total)
	assert.Equal(t, 2, limited.UnreadCount)

	_, err = f.svc.Notification.MarkRead(ctx, "gym-user", &request.MarkReadRequest{NotificationID: "notif_old"})
	require.NoError(t, err)

	read := true
	onlyRead, err := f.svc.Notification.List(ctx, "gym-user", &request.NotificationListQuery{IsRead: &read})
	require.NoError(t, err)
	require.Equal(t, 1, onlyRead.Total)
	assert.Equal(t, "notif_old", onlyRead.Notifications[0].NotificationID)
	assert.Equal(t, 1, onlyRead.UnreadCount)
}

func TestMarkRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedNotification(t, "notif_a", "gym-user", testNow.Add(-time.Hour))
	f.seedNotification(t, "notif_b", "gym-user", testNow.Add(-time.Minute))
	f.seedNotification(t, "notif_c", "someone", testNow)

	_, err := f.svc.Notification.MarkRead(ctx, "gym-user", &request.MarkReadRequest{})
	assert.ErrorIs(t, err, ErrMarkReadTargetRequired)
	_, err = f.svc.Notification.MarkRead(ctx, "gym-user", &request.MarkReadRequest{NotificationID: "notif_missing"})
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	_, err = f.svc.Notification.MarkRead(ctx, "gym-user", &request.MarkReadRequest{NotificationID: "notif_c"})
	assert.ErrorIs(t, err, ErrNotificationNotOwner)

	one, err := f.svc.Notification.MarkRead(ctx, "gym-user", &request.MarkReadRequest{NotificationID: "notif_a"})
	require.NoError(t, err)
	assert.Equal(t, "notif_a", one.NotificationID)
	assert.True(t, one.IsRead)

	again, err := f.svc.Notification.MarkRead(ctx, "gym-user", &request.MarkReadRequest{NotificationID: "notif_a"})
	require.NoError(t, err)
	assert.True(t, again.IsRead)

	all, err := f.svc.Notification.MarkRead(ctx, "gym-user", &request.MarkReadRequest{MarkAllAsRead: true})
	require.NoError(t, err)
	require.NotNil(t, all.Updated)
	assert.Equal(t, int64(1), *all.Updated)

	list, err := f.svc.Notification.List(ctx, "gym-user", &request.NotificationListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.UnreadCount)

	other, err := f.svc.Notification.List(ctx, "someone", &request.NotificationListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, other.UnreadCount)
}
