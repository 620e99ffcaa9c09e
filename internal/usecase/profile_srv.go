package usecase

import (
	"context"
	"errors"
	"strings"

	"boxing-booking/internal/data/entity"
	"boxing-booking/internal/data/repository"
	"boxing-booking/internal/dto/request"
	"boxing-booking/internal/dto/response"
	"boxing-booking/pkg/utils"

	"go.uber.org/zap"
)

type ProfileService interface {
	CreateBoxer(ctx context.Context, userID string, req *request.CreateBoxerRequest) (*response.BoxerResponse, error)
	CreateGym(ctx context.Context, userID string, req *request.CreateGymRequest) (*response.GymResponse, error)
	GetBoxer(ctx context.Context, userID string) (*response.BoxerResponse, error)
	GetGym(ctx context.Context, userID string) (*response.GymResponse, error)
}

type profileService struct {
	repo *repository.Repository
	opts Options
	log  *zap.Logger
}

func NewProfileService(repo *repository.Repository, opts Options, log *zap.Logger) ProfileService {
	return &profileService{
		repo: repo,
		opts: opts,
		log:  log.With(zap.String("service", "profile")),
	}
}

func boxerValidationError(errs map[string]string) *AppError {
	if _, bad := errs["nickname"]; bad {
		return ErrBoxerNicknameRequired
	}
	if _, bad := errs["gender"]; bad {
		return ErrBoxerGenderInvalid
	}
	_, badHeight := errs["height"]
	_, badWeight := errs["weight"]
	if badHeight || badWeight {
		return ErrBoxerBodyInvalid
	}
	if _, bad := errs["birthdate"]; bad {
		return ErrBoxerBirthdateInvalid
	}
	for field := range errs {
		if strings.HasPrefix(field, "record_") {
			return ErrBoxerRecordInvalid
		}
	}
	if len(errs) > 0 {
		return ErrBoxerFieldInvalid
	}
	return nil
}

func (s *profileService) CreateBoxer(ctx context.Context, userID string, req *request.CreateBoxerRequest) (*response.BoxerResponse, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	if appErr := boxerValidationError(utils.ValidateStruct(req)); appErr != nil {
		logFailure(s.log, "Create boxer validation failed", appErr, zap.String("user", utils.MaskID(userID)))
		return nil, appErr
	}

	fail := func(msg string, err error) (*response.BoxerResponse, error) {
		appErr := storeError(err, ErrBoxerCreateFailed)
		logFailure(s.log, msg, appErr, zap.String("user", utils.MaskID(userID)))
		return nil, appErr
	}

	existing, err := s.repo.Boxer.FindByUserID(ctx, userID)
	if err != nil {
		return fail("Failed to check existing boxer", err)
	}
	if existing != nil {
		return fail("Boxer profile already exists", ErrBoxerExists)
	}

	if req.GymID != nil && *req.GymID != "" {
		gym, err := s.repo.Gym.FindByID(ctx, *req.GymID)
		if err != nil {
			return fail("Failed to load linked gym", err)
		}
		if gym == nil {
			return fail("Linked gym not found", ErrBoxerGymNotFound)
		}
	}

	now := s.opts.now()
	boxer := &entity.Boxer{
		BoxerID:      utils.GenerateBoxerID(),
		UserID:       userID,
		Nickname:     req.Nickname,
		Gender:       entity.Gender(req.Gender),
		Birthdate:    req.Birthdate,
		Height:       *req.Height,
		Weight:       *req.Weight,
		City:         req.City,
		GymID:        req.GymID,
		Phone:        req.Phone,
		RecordWins:   req.RecordWins,
		RecordLosses: req.RecordLosses,
		RecordDraws:  req.RecordDraws,
	}
	boxer.CreatedAt = now
	boxer.UpdatedAt = now

	var count int64
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Boxer.Create(ctx, boxer); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrBoxerExists
			}
			return err
		}
		count, err = tx.Counter.Increment(ctx, entity.CounterBoxers)
		return err
	})
	if err != nil {
		return fail("Failed to create boxer", err)
	}

	s.log.Info("Boxer profile created",
		zap.String("boxer_id", boxer.BoxerID),
		zap.String("user", utils.MaskID(userID)),
		zap.Int64("boxer_count", count),
	)
	return response.NewBoxerResponse(boxer), nil
}

func gymValidationError(errs map[string]string) *AppError {
	if _, bad := errs["name"]; bad {
		return ErrGymNameRequired
	}
	if _, bad := errs["address"]; bad {
		return ErrGymAddressRequired
	}
	for field := range errs {
		if field == "location" || field == "latitude" || field == "longitude" {
			return ErrGymLocationInvalid
		}
	}
	if _, bad := errs["phone"]; bad {
		return ErrGymPhoneRequired
	}
	if len(errs) > 0 {
		return ErrGymFieldInvalid
	}
	return nil
}

func (s *profileService) CreateGym(ctx context.Context, userID string, req *request.CreateGymRequest) (*response.GymResponse, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	if appErr := gymValidationError(utils.ValidateStruct(req)); appErr != nil {
		logFailure(s.log, "Create gym validation failed", appErr, zap.String("user", utils.MaskID(userID)))
		return nil, appErr
	}

	fail := func(msg string, err error) (*response.GymResponse, error) {
		appErr := storeError(err, ErrGymCreateFailed)
		logFailure(s.log, msg, appErr, zap.String("user", utils.MaskID(userID)))
		return nil, appErr
	}

	existing, err := s.repo.Gym.FindByUserID(ctx, userID)
	if err != nil {
		return fail("Failed to check existing gym", err)
	}
	if existing != nil {
		return fail("Gym profile already exists", ErrGymExists)
	}

	now := s.opts.now()
	gym := &entity.Gym{
		GymID:     utils.GenerateGymID(),
		UserID:    userID,
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  *req.Location.Latitude,
		Longitude: *req.Location.Longitude,
		City:      req.City,
		Phone:     req.Phone,
		IconURL:   req.IconURL,
		Status:    entity.GymStatusPending,
	}
	gym.CreatedAt = now
	gym.UpdatedAt = now

	var count int64
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Gym.Create(ctx, gym); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrGymExists
			}
			return err
		}
		count, err = tx.Counter.Increment(ctx, entity.CounterGyms)
		return err
	})
	if err != nil {
		return fail("Failed to create gym", err)
	}

	s.log.Info("Gym profile created",
		zap.String("gym_id", gym.GymID),
		zap.String("user", utils.MaskID(userID)),
		zap.Int64("gym_count", count),
	)
	return response.NewGymResponse(gym), nil
}

func (s *profileService) GetBoxer(ctx context.Context, userID string) (*response.BoxerResponse, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	boxer, err := s.repo.Boxer.FindByUserID(ctx, userID)
	if err != nil {
		appErr := storeError(err, ErrBoxerLookupFailed)
		logFailure(s.log, "Failed to load boxer profile", appErr, zap.String("user", utils.MaskID(userID)))
		return nil, appErr
	}
	if boxer == nil {
		return nil, ErrBoxerNotFound
	}
	return response.NewBoxerResponse(boxer), nil
}

func (s *profileService) GetGym(ctx context.Context, userID string) (*response.GymResponse, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	gym, err := s.repo.Gym.FindByUserID(ctx, userID)
	if err != nil {
		appErr := storeError(err, ErrGymLookupFailed)
		logFailure(s.log, "Failed to load gym profile", appErr, zap.String("user", utils.MaskID(userID)))
		return nil, appErr
	}
	if gym == nil {
		return nil, ErrGymNotFound
	}
	return response.NewGymResponse(gym), nil
}
