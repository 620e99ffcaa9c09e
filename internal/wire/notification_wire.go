package wire

import (
	"boxing-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireNotification(r chi.Router, notificationHandler *adaptor.NotificationHandler) {
	r.Get("/notifications", notificationHandler.List)
	r.Post("/notifications/read", notificationHandler.MarkRead)
}
