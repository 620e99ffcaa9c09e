package response

import (
	"time"
)

type BookingResponse struct {
	BookingID       string    `json:"booking_id"`
	SlotID          string    `json:"slot_id"`
	BookingTime     time.Time `json:"booking_time"`
	CurrentBookings int       `json:"current_bookings"`
}

type CancelBookingResponse struct {
	BookingID       string    `json:"booking_id"`
	SlotID          string    `json:"slot_id"`
	CancelledAt     time.Time `json:"cancelled_at"`
	CurrentBookings int       `json:"current_bookings"`
}

type MyBookingItem struct {
	BookingID            string     `json:"booking_id"`
	SlotID               string     `json:"slot_id"`
	Gym                  GymSummary `json:"gym"`
	Slot                 SlotBrief  `json:"slot"`
	BookingTime          time.Time  `json:"booking_time"`
	Status               string     `json:"status"`
	CancelledAt          *time.Time `json:"cancelled_at"`
	CanCancel            bool       `json:"can_cancel"`
	MinutesUntilDeadline *int       `json:"minutes_until_deadline"`
	CreatedAt            time.Time  `json:"created_at"`
}

type BoxerBrief struct {
	BoxerID  string `json:"boxer_id"`
	Nickname string `json:"nickname"`
}

type MyBookingsResponse struct {
	Bookings []MyBookingItem `json:"bookings"`
	Total    int             `json:"total"`
	Boxer    BoxerBrief      `json:"boxer"`
}
