package adaptor

import (
	"net/http"

	"boxing-booking/internal/dto/request"
	"boxing-booking/internal/usecase"
	"boxing-booking/pkg/utils"

	"go.uber.org/zap"
)

type ProfileHandler struct {
	service usecase.ProfileService
	stats   usecase.StatsService
	log     *zap.Logger
}

func NewProfileHandler(service usecase.ProfileService, stats usecase.StatsService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		stats:   stats,
		log:     log.With(zap.String("handler", "profile")),
	}
}

// CreateBoxer handles POST /api/boxers
func (h *ProfileHandler) CreateBoxer(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req request.CreateBoxerRequest
	if err := decodeBody(r, &req); err != nil {
		utils.ResponseBadRequest(w, "invalid request body")
		return
	}

	boxer, err := h.service.CreateBoxer(r.Context(), userID, &req)
	if err != nil {
		writeError(w, h.log, err, "create boxer")
		return
	}

	utils.ResponseCreated(w, boxer)
}

// GetBoxer handles GET /api/boxers/me
func (h *ProfileHandler) GetBoxer(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	boxer, err := h.service.GetBoxer(r.Context(), userID)
	if err != nil {
		writeError(w, h.log, err, "get boxer")
		return
	}

	utils.ResponseSuccess(w, boxer)
}

// CreateGym handles POST /api/gyms
func (h *ProfileHandler) CreateGym(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req request.CreateGymRequest
	if err := decodeBody(r, &req); err != nil {
		utils.ResponseBadRequest(w, "invalid request body")
		return
	}

	gym, err := h.service.CreateGym(r.Context(), userID, &req)
	if err != nil {
		writeError(w, h.log, err, "create gym")
		return
	}

	utils.ResponseCreated(w, gym)
}

// GetGym handles GET /api/gyms/me
func (h *ProfileHandler) GetGym(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	gym, err := h.service.GetGym(r.Context(), userID)
	if err != nil {
		writeError(w, h.log, err, "get gym")
		return
	}

	utils.ResponseSuccess(w, gym)
}

// Stats handles GET /api/stats (public)
func (h *ProfileHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Get(r.Context())
	if err != nil {
		writeError(w, h.log, err, "get stats")
		return
	}

	utils.ResponseSuccess(w, stats)
}
