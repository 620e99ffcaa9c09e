package wire

import (
	"boxing-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	r.Post("/slots/{id}/book", bookingHandler.Book)
	r.Post("/bookings/cancel", bookingHandler.Cancel)
	r.Get("/bookings/me", bookingHandler.ListMine)
}
