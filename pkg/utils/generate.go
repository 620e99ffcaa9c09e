package utils

import (
	"strings"

	"github.com/google/uuid"
)

// Document ids carry a readable prefix so that support staff can tell a slot id
// from a booking id at a glance.
const (
	SlotIDPrefix         = "slot_"
	BookingIDPrefix      = "booking_"
	BoxerIDPrefix        = "boxer_"
	GymIDPrefix          = "gym_"
	NotificationIDPrefix = "notif_"
)

func GenerateID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}

func GenerateSlotID() string         { return GenerateID(SlotIDPrefix) }
func GenerateBookingID() string      { return GenerateID(BookingIDPrefix) }
func GenerateBoxerID() string        { return GenerateID(BoxerIDPrefix) }
func GenerateGymID() string          { return GenerateID(GymIDPrefix) }
func GenerateNotificationID() string { return GenerateID(NotificationIDPrefix) }
