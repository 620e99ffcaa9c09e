package request

// CancelBookingRequest identifies the booking directly or by the caller's slot.
type CancelBookingRequest struct {
	BookingID string `json:"booking_id"`
	SlotID    string `json:"slot_id"`
}

type MyBookingsQuery struct {
	Status string
}
