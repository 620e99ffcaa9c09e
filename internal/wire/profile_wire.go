package wire

import (
	"boxing-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireProfile(r chi.Router, profileHandler *adaptor.ProfileHandler) {
	r.Post("/boxers", profileHandler.CreateBoxer)
	r.Get("/boxers/me", profileHandler.GetBoxer)

	r.Post("/gyms", profileHandler.CreateGym)
	r.Get("/gyms/me", profileHandler.GetGym)
}
