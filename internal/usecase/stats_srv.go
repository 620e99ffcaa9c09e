package usecase

import (
	"context"

	"boxing-booking/internal/data/entity"
	"boxing-booking/internal/data/repository"
	"boxing-booking/internal/dto/response"

	"go.uber.org/zap"
)

type StatsService interface {
	Get(ctx context.Context) (*response.StatsResponse, error)
}

type statsService struct {
	repo *repository.Repository
	opts Options
	log  *zap.Logger
}

func NewStatsService(repo *repository.Repository, opts Options, log *zap.Logger) StatsService {
	return &statsService{
		repo: repo,
		opts: opts,
		log:  log.With(zap.String("service", "stats")),
	}
}

func (s *statsService) Get(ctx context.Context) (*response.StatsResponse, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	boxers, err := s.repo.Counter.Get(ctx, entity.CounterBoxers)
	if err != nil {
		appErr := storeError(err, ErrStatsFailed)
		logFailure(s.log, "Failed to read boxer counter", appErr)
		return nil, appErr
	}
	gyms, err := s.repo.Counter.Get(ctx, entity.CounterGyms)
	if err != nil {
		appErr := storeError(err, ErrStatsFailed)
		logFailure(s.log, "Failed to read gym counter", appErr)
		return nil, appErr
	}

	return &response.StatsResponse{BoxerCount: boxers, GymCount: gyms}, nil
}
