package entity

type SlotStatus string

const (
	SlotStatusActive    SlotStatus = "active"
	SlotStatusCancelled SlotStatus = "cancelled"
)

// Slot is a gym-published block of bookable capacity on one calendar date.
type Slot struct {
	Base
	Archivable
	SlotID          string     `db:"slot_id"`
	GymID           string     `db:"gym_id"`
	UserID          string     `db:"user_id"`
	Date            string     `db:"date"`
	StartTime       string     `db:"start_time"`
	EndTime         string     `db:"end_time"`
	MaxBoxers       int        `db:"max_boxers"`
	CurrentBookings int        `db:"current_bookings"`
	Status          SlotStatus `db:"status"`
}

// Open reports whether the slot still takes bookings.
func (s *Slot) Open() bool {
	return s.Status == SlotStatusActive && !s.Archived
}

func (s *Slot) Full() bool {
	return s.CurrentBookings >= s.MaxBoxers
}

func (s *Slot) AvailableSpots() int {
	if s.CurrentBookings >= s.MaxBoxers {
		return 0
	}
	return s.MaxBoxers - s.CurrentBookings
}

// SlotStatusFilter narrows gym slot listings.
type SlotStatusFilter string

const (
	SlotFilterAll       SlotStatusFilter = "all"
	SlotFilterActive    SlotStatusFilter = "active"
	SlotFilterCancelled SlotStatusFilter = "cancelled"
)

// SlotQuery selects bookable slots across gyms.
type SlotQuery struct {
	DateFrom string
	DateTo   string
	GymID    string
	Limit    int
}
