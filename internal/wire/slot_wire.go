package wire

import (
	"boxing-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireSlot(r chi.Router, slotHandler *adaptor.SlotHandler) {
	// gym owner
	r.Route("/gym/slots", func(r chi.Router) {
		r.Post("/", slotHandler.Publish)
		r.Get("/", slotHandler.ListForGym)
		r.Put("/{id}", slotHandler.Update)
		r.Delete("/{id}", slotHandler.Cancel)
	})

	// any authenticated caller
	r.Get("/slots", slotHandler.ListAvailable)
	r.Get("/slots/{id}/bookings", slotHandler.ListBookings)
}
