package wire

import (
	"net/http"
	"time"

	"boxing-booking/internal/adaptor"
	"boxing-booking/internal/data/repository"
	"boxing-booking/internal/notify"
	"boxing-booking/internal/usecase"
	"boxing-booking/pkg/middleware"
	"boxing-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the wired router plus the pieces main runs in the background.
type App struct {
	Router      *chi.Mux
	Service     *usecase.Service
	RateLimiter *middleware.RateLimiter
}

// Wiring builds services, handlers and routes on top of repo.
func Wiring(repo *repository.Repository, dispatcher notify.Dispatcher, config *utils.Config, logger *zap.Logger) (*App, error) {
	opts, err := usecase.OptionsFromConfig(config)
	if err != nil {
		return nil, err
	}

	service := usecase.NewService(repo, dispatcher, opts, logger)
	handler := adaptor.NewHandler(service, logger)
	limiter := middleware.NewRateLimiter(config.RateLimit.RPS, config.RateLimit.Burst, 3*time.Minute)

	router := setupRouter(handler, repo, limiter, config, logger)

	return &App{
		Router:      router,
		Service:     service,
		RateLimiter: limiter,
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	limiter *middleware.RateLimiter,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(config.App.AllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "route not found")
	})

	r.Get("/health", handler.System.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Handler)

		r.Get("/stats", handler.Profile.Stats)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Identity(repo.Session, config.App.TrustGatewayIdentity, config.Database.QueryTimeout, logger))

			wireProfile(r, handler.Profile)
			wireSlot(r, handler.Slot)
			wireBooking(r, handler.Booking)
			wireNotification(r, handler.Notification)
		})

		wireSystem(r, handler.System, config, logger)
	})

	return r
}
