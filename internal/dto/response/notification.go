package response

import (
	"time"

	"boxing-booking/internal/data/entity"
)

type NotificationItem struct {
	NotificationID string    `json:"notification_id"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	RelatedSlotID  *string   `json:"related_slot_id"`
	RelatedBoxerID *string   `json:"related_boxer_id"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewNotificationItem(n *entity.Notification) NotificationItem {
	return NotificationItem{
		NotificationID: n.NotificationID,
		Type:           string(n.Type),
		Title:          n.Title,
		Content:        n.Content,
		RelatedSlotID:  n.RelatedSlotID,
		RelatedBoxerID: n.RelatedBoxerID,
		IsRead:         n.IsRead,
		CreatedAt:      n.CreatedAt,
	}
}

type NotificationListResponse struct {
	Notifications []NotificationItem `json:"notifications"`
	Total         int                `json:"total"`
	UnreadCount   int                `json:"unread_count"`
}

type MarkReadResponse struct {
	NotificationID string `json:"notification_id,omitempty"`
	IsRead         bool   `json:"is_read,omitempty"`
	Updated        *int64 `json:"updated,omitempty"`
}
