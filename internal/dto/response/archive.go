package response

import (
	"time"
)

type ArchiveCount struct {
	Archived int `json:"archived"`
}

// ArchiveSummary reports one retention sweep.
type ArchiveSummary struct {
	Date          string       `json:"date"`
	ExecutedAt    time.Time    `json:"executed_at"`
	GymSlots      ArchiveCount `json:"gym_slots"`
	SlotBookings  ArchiveCount `json:"slot_bookings"`
	Notifications ArchiveCount `json:"notifications"`
}
