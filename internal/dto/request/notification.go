package request

type NotificationListQuery struct {
	IsRead *bool
	Limit  int
}

type MarkReadRequest struct {
	NotificationID string `json:"notification_id"`
	MarkAllAsRead  bool   `json:"mark_all_as_read"`
}
