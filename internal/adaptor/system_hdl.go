package adaptor

import (
	"net/http"

	"boxing-booking/internal/usecase"
	"boxing-booking/pkg/utils"

	"go.uber.org/zap"
)

type SystemHandler struct {
	archive usecase.ArchiveService
	log     *zap.Logger
}

func NewSystemHandler(archive usecase.ArchiveService, log *zap.Logger) *SystemHandler {
	return &SystemHandler{
		archive: archive,
		log:     log.With(zap.String("handler", "system")),
	}
}

// Health handles GET /health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, map[string]string{"status": "ok"})
}

// RunArchive handles POST /api/internal/archive
func (h *SystemHandler) RunArchive(w http.ResponseWriter, r *http.Request) {
	summary, err := h.archive.Run(r.Context())
	if err != nil {
		writeError(w, h.log, err, "archive sweep")
		return
	}

	h.log.Info("Manual archive sweep finished",
		zap.Int("gym_slots", summary.GymSlots.Archived),
		zap.Int("slot_bookings", summary.SlotBookings.Archived),
		zap.Int("notifications", summary.Notifications.Archived),
	)
	utils.ResponseSuccess(w, summary)
}
