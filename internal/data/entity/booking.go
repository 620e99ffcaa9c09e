package entity

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	Base
	Archivable
	BookingID   string        `db:"booking_id"`
	SlotID      string        `db:"slot_id"`
	GymID       string        `db:"gym_id"`
	BoxerID     string        `db:"boxer_id"`
	BoxerUserID string        `db:"boxer_user_id"`
	BookingTime time.Time     `db:"booking_time"`
	Status      BookingStatus `db:"status"`
	CancelledAt *time.Time    `db:"cancelled_at"`
}

func (b *Booking) Active() bool {
	return b.Status == BookingStatusActive
}

// BookingStatusFilter narrows a boxer's booking history.
type BookingStatusFilter string

const (
	BookingFilterAll       BookingStatusFilter = "all"
	BookingFilterActive    BookingStatusFilter = "active"
	BookingFilterCancelled BookingStatusFilter = "cancelled"
)
