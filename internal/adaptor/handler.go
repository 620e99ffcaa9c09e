package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"boxing-booking/internal/usecase"
	"boxing-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Slot         *SlotHandler
	Booking      *BookingHandler
	Profile      *ProfileHandler
	Notification *NotificationHandler
	System       *SystemHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Slot:         NewSlotHandler(service.Slot, log),
		Booking:      NewBookingHandler(service.Booking, log),
		Profile:      NewProfileHandler(service.Profile, service.Stats, log),
		Notification: NewNotificationHandler(service.Notification, log),
		System:       NewSystemHandler(service.Archive, log),
	}
}

var kindStatus = map[usecase.Kind]int{
	usecase.KindValidation:   http.StatusBadRequest,
	usecase.KindUnauthorized: http.StatusUnauthorized,
	usecase.KindForbidden:    http.StatusForbidden,
	usecase.KindNotFound:     http.StatusNotFound,
	usecase.KindConflict:     http.StatusConflict,
	usecase.KindUnavailable:  http.StatusServiceUnavailable,
	usecase.KindInternal:     http.StatusInternalServerError,
}

// writeError translates a usecase failure into the envelope. Anything that is
// not an AppError is reported as errcode 1000.
func writeError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var appErr *usecase.AppError
	if !errors.As(err, &appErr) {
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "internal server error")
		return
	}

	status, ok := kindStatus[appErr.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if appErr.Retryable() {
		w.Header().Set("Retry-After", "1")
	}
	utils.ResponseError(w, status, appErr.Code, appErr.Message)
}

// decodeBody reads a JSON object into dst. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// callerID reports the identity resolved by middleware.Identity, writing 1001 when absent.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "authentication required")
		return "", false
	}
	return userID, true
}
