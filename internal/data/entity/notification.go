package entity

type NotificationType string

const (
	NotificationNewBooking       NotificationType = "new_booking"
	NotificationCancelledBooking NotificationType = "cancelled_booking"
)

type Notification struct {
	Base
	Archivable
	NotificationID  string           `db:"notification_id"`
	RecipientUserID string           `db:"recipient_user_id"`
	Type            NotificationType `db:"type"`
	Title           string           `db:"title"`
	Content         string           `db:"content"`
	RelatedSlotID   *string          `db:"related_slot_id"`
	RelatedBoxerID  *string          `db:"related_boxer_id"`
	IsRead          bool             `db:"is_read"`
}
