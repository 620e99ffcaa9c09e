package adaptor

import (
	"net/http"

	"boxing-booking/internal/dto/request"
	"boxing-booking/internal/usecase"
	"boxing-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// Book handles POST /api/slots/{id}/book
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	booking, err := h.service.Book(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err, "book slot")
		return
	}

	utils.ResponseCreated(w, booking)
}

// Cancel handles POST /api/bookings/cancel with booking_id or slot_id
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req request.CancelBookingRequest
	if err := decodeBody(r, &req); err != nil {
		utils.ResponseBadRequest(w, "invalid request body")
		return
	}

	result, err := h.service.Cancel(r.Context(), userID, &req)
	if err != nil {
		writeError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, result)
}

// ListMine handles GET /api/bookings/me?status=
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	query := &request.MyBookingsQuery{Status: r.URL.Query().Get("status")}

	bookings, err := h.service.ListMine(r.Context(), userID, query)
	if err != nil {
		writeError(w, h.log, err, "list my bookings")
		return
	}

	utils.ResponseSuccess(w, bookings)
}
