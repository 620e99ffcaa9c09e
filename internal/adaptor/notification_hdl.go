package adaptor

import (
	"net/http"

	"boxing-booking/internal/dto/request"
	"boxing-booking/internal/usecase"
	"boxing-booking/pkg/utils"

	"go.uber.org/zap"
)

type NotificationHandler struct {
	service usecase.NotificationService
	log     *zap.Logger
}

func NewNotificationHandler(service usecase.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log.With(zap.String("handler", "notification")),
	}
}

// List handles GET /api/notifications?is_read=&limit=
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	query := &request.NotificationListQuery{
		IsRead: utils.ParseOptionalBool(q.Get("is_read")),
		Limit:  utils.ParseInt(q.Get("limit"), 0),
	}

	list, err := h.service.List(r.Context(), userID, query)
	if err != nil {
		writeError(w, h.log, err, "list notifications")
		return
	}

	utils.ResponseSuccess(w, list)
}

// MarkRead handles POST /api/notifications/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req request.MarkReadRequest
	if err := decodeBody(r, &req); err != nil {
		utils.ResponseBadRequest(w, "invalid request body")
		return
	}

	result, err := h.service.MarkRead(r.Context(), userID, &req)
	if err != nil {
		writeError(w, h.log, err, "mark notifications read")
		return
	}

	utils.ResponseSuccess(w, result)
}
