package notify

import (
	"fmt"
	"strings"
	"time"

	"boxing-booking/internal/data/entity"
	"boxing-booking/pkg/utils"

	"github.com/google/uuid"
)

type SlotInfo struct {
	SlotID         string `json:"slot_id"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	AvailableSpots int    `json:"available_spots"`
}

// Event is a committed booking change waiting to be turned into notifications.
type Event struct {
	ID                string                  `json:"id"`
	Type              entity.NotificationType `json:"type"`
	GymUserID         string                  `json:"gym_user_id"`
	OtherBoxerUserIDs []string                `json:"other_boxer_user_ids"`
	BoxerID           string                  `json:"boxer_id"`
	BoxerName         string                  `json:"boxer_name"`
	Slot              SlotInfo                `json:"slot"`
	Attempt           int                     `json:"attempt"`
	OccurredAt        time.Time               `json:"occurred_at"`
}

func NewEvent(typ entity.NotificationType, occurredAt time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		OccurredAt: occurredAt,
	}
}

// Message is one notification addressed to one recipient.
type Message struct {
	RecipientUserID string
	Title           string
	Content         string
}

// Messages expands the event into the gym owner's message followed by one
// message per other active booker.
func (e Event) Messages() []Message {
	when := fmt.Sprintf("%s %s-%s", e.Slot.Date, e.Slot.StartTime, e.Slot.EndTime)

	var gym, others Message
	switch e.Type {
	case entity.NotificationNewBooking:
		gym = Message{
			Title:   "New booking",
			Content: fmt.Sprintf("Boxer %s booked your slot on %s", e.BoxerName, when),
		}
		others = Message{
			Title:   "A boxer joined your slot",
			Content: fmt.Sprintf("Boxer %s also booked %s, %d spots left", e.BoxerName, when, e.Slot.AvailableSpots),
		}
	case entity.NotificationCancelledBooking:
		gym = Message{
			Title:   "Booking cancelled",
			Content: fmt.Sprintf("Boxer %s cancelled the booking on %s", e.BoxerName, when),
		}
		others = Message{
			Title:   "Booking cancelled",
			Content: fmt.Sprintf("Boxer %s cancelled, %d spots now available", e.BoxerName, e.Slot.AvailableSpots),
		}
	default:
		return nil
	}

	msgs := make([]Message, 0, len(e.OtherBoxerUserIDs)+1)
	if e.GymUserID != "" {
		gym.RecipientUserID = e.GymUserID
		msgs = append(msgs, gym)
	}
	for _, userID := range e.OtherBoxerUserIDs {
		m := others
		m.RecipientUserID = userID
		msgs = append(msgs, m)
	}
	return msgs
}

// NotificationID is stable per event and recipient, so a retried event
// rewrites the same records instead of duplicating them.
func (e Event) NotificationID(recipientUserID string) string {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(e.ID+"/"+recipientUserID))
	return utils.NotificationIDPrefix + strings.ReplaceAll(id.String(), "-", "")[:16]
}
