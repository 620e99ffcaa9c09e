package wire

import (
	"boxing-booking/internal/adaptor"
	"boxing-booking/pkg/middleware"
	"boxing-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireSystem exposes operator endpoints guarded by the internal token.
func wireSystem(r chi.Router, systemHandler *adaptor.SystemHandler, config *utils.Config, log *zap.Logger) {
	r.With(middleware.InternalToken(config.App.InternalToken, log)).
		Post("/internal/archive", systemHandler.RunArchive)
}
