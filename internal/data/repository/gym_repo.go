package repository

import (
	"context"
	"errors"
	"fmt"

	"boxing-booking/internal/data/entity"
	"boxing-booking/pkg/database"
	"boxing-booking/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type GymRepository interface {
	// Create returns ErrDuplicate when the user already owns a gym profile.
	Create(ctx context.Context, gym *entity.Gym) error
	FindByID(ctx context.Context, gymID string) (*entity.Gym, error)
	FindByUserID(ctx context.Context, userID string) (*entity.Gym, error)
}

type gymRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewGymRepository(db database.Querier, log *zap.Logger) GymRepository {
	return &gymRepository{
		db:  db,
		log: log.With(zap.String("repository", "gym")),
	}
}

const gymColumns = `gym_id, user_id, name, address, latitude, longitude, city, phone, icon_url, status,
	created_at, updated_at`

func (r *gymRepository) Create(ctx context.Context, gym *entity.Gym) error {
	query := `
		INSERT INTO gyms (gym_id, user_id, name, address, latitude, longitude, city, phone, icon_url, status,
		                  created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		gym.GymID,
		gym.UserID,
		gym.Name,
		gym.Address,
		gym.Latitude,
		gym.Longitude,
		gym.City,
		gym.Phone,
		gym.IconURL,
		gym.Status,
		gym.CreatedAt,
		gym.UpdatedAt,
	)
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("create gym for user %s: %w", utils.MaskID(gym.UserID), ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create gym",
			zap.Error(err),
			zap.String("gym_id", gym.GymID),
		)
		return fmt.Errorf("create gym %s: %w", gym.GymID, err)
	}

	return nil
}

func (r *gymRepository) FindByID(ctx context.Context, gymID string) (*entity.Gym, error) {
	return r.findOne(ctx, "find gym by ID", `SELECT `+gymColumns+` FROM gyms WHERE gym_id = $1`, gymID)
}

func (r *gymRepository) FindByUserID(ctx context.Context, userID string) (*entity.Gym, error) {
	return r.findOne(ctx, "find gym by user ID", `SELECT `+gymColumns+` FROM gyms WHERE user_id = $1`, userID)
}

func (r *gymRepository) findOne(ctx context.Context, op, query, arg string) (*entity.Gym, error) {
	var gym entity.Gym
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&gym.GymID,
		&gym.UserID,
		&gym.Name,
		&gym.Address,
		&gym.Latitude,
		&gym.Longitude,
		&gym.City,
		&gym.Phone,
		&gym.IconURL,
		&gym.Status,
		&gym.CreatedAt,
		&gym.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err), zap.String("key", utils.MaskID(arg)))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &gym, nil
}
