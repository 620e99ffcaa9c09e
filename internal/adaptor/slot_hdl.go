package adaptor

import (
	"net/http"

	"boxing-booking/internal/dto/request"
	"boxing-booking/internal/usecase"
	"boxing-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SlotHandler struct {
	service usecase.SlotService
	log     *zap.Logger
}

func NewSlotHandler(service usecase.SlotService, log *zap.Logger) *SlotHandler {
	return &SlotHandler{
		service: service,
		log:     log.With(zap.String("handler", "slot")),
	}
}

// Publish handles POST /api/gym/slots
func (h *SlotHandler) Publish(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req request.PublishSlotRequest
	if err := decodeBody(r, &req); err != nil {
		utils.ResponseBadRequest(w, "invalid request body")
		return
	}

	slot, err := h.service.Publish(r.Context(), userID, &req)
	if err != nil {
		writeError(w, h.log, err, "publish slot")
		return
	}

	utils.ResponseCreated(w, slot)
}

// Update handles PUT /api/gym/slots/{id}
func (h *SlotHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req request.UpdateSlotRequest
	if err := decodeBody(r, &req); err != nil {
		utils.ResponseBadRequest(w, "invalid request body")
		return
	}

	slot, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		writeError(w, h.log, err, "update slot")
		return
	}

	utils.ResponseSuccess(w, slot)
}

// Cancel handles DELETE /api/gym/slots/{id}
func (h *SlotHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	slot, err := h.service.Cancel(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err, "cancel slot")
		return
	}

	utils.ResponseSuccess(w, slot)
}

// ListForGym handles GET /api/gym/slots?status=
func (h *SlotHandler) ListForGym(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	query := &request.GymSlotListQuery{Status: r.URL.Query().Get("status")}

	slots, err := h.service.ListForGym(r.Context(), userID, query)
	if err != nil {
		writeError(w, h.log, err, "list gym slots")
		return
	}

	utils.ResponseSuccess(w, slots)
}

// ListAvailable handles GET /api/slots?date_from=&date_to=&gym_id=&city=
func (h *SlotHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	query := &request.SlotListQuery{
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
		GymID:    q.Get("gym_id"),
		City:     q.Get("city"),
	}

	slots, err := h.service.ListAvailable(r.Context(), userID, query)
	if err != nil {
		writeError(w, h.log, err, "list available slots")
		return
	}

	utils.ResponseSuccess(w, slots)
}

// ListBookings handles GET /api/slots/{id}/bookings
func (h *SlotHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.ListBookings(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err, "list slot bookings")
		return
	}

	utils.ResponseSuccess(w, bookings)
}
