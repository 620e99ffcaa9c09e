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

type BoxerRepository interface {
	// Create returns ErrDuplicate when the user already owns a boxer profile.
	Create(ctx context.Context, boxer *entity.Boxer) error
	FindByID(ctx context.Context, boxerID string) (*entity.Boxer, error)
	FindByUserID(ctx context.Context, userID string) (*entity.Boxer, error)
}

type boxerRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBoxerRepository(db database.Querier, log *zap.Logger) BoxerRepository {
	return &boxerRepository{
		db:  db,
		log: log.With(zap.String("repository", "boxer")),
	}
}

const boxerColumns = `boxer_id, user_id, nickname, gender, birthdate, height, weight, city, gym_id, phone,
	record_wins, record_losses, record_draws, created_at, updated_at`

func (r *boxerRepository) Create(ctx context.Context, boxer *entity.Boxer) error {
	query := `
		INSERT INTO boxers (boxer_id, user_id, nickname, gender, birthdate, height, weight, city, gym_id, phone,
		                    record_wins, record_losses, record_draws, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.Exec(ctx, query,
		boxer.BoxerID,
		boxer.UserID,
		boxer.Nickname,
		boxer.Gender,
		boxer.Birthdate,
		boxer.Height,
		boxer.Weight,
		boxer.City,
		boxer.GymID,
		boxer.Phone,
		boxer.RecordWins,
		boxer.RecordLosses,
		boxer.RecordDraws,
		boxer.CreatedAt,
		boxer.UpdatedAt,
	)
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("create boxer for user %s: %w", utils.MaskID(boxer.UserID), ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create boxer",
			zap.Error(err),
			zap.String("boxer_id", boxer.BoxerID),
		)
		return fmt.Errorf("create boxer %s: %w", boxer.BoxerID, err)
	}

	return nil
}

func (r *boxerRepository) FindByID(ctx context.Context, boxerID string) (*entity.Boxer, error) {
	return r.findOne(ctx, "find boxer by ID", `SELECT `+boxerColumns+` FROM boxers WHERE boxer_id = $1`, boxerID)
}

func (r *boxerRepository) FindByUserID(ctx context.Context, userID string) (*entity.Boxer, error) {
	return r.findOne(ctx, "find boxer by user ID", `SELECT `+boxerColumns+` FROM boxers WHERE user_id = $1`, userID)
}

func (r *boxerRepository) findOne(ctx context.Context, op, query, arg string) (*entity.Boxer, error) {
	var boxer entity.Boxer
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&boxer.BoxerID,
		&boxer.UserID,
		&boxer.Nickname,
		&boxer.Gender,
		&boxer.Birthdate,
		&boxer.Height,
		&boxer.Weight,
		&boxer.City,
		&boxer.GymID,
		&boxer.Phone,
		&boxer.RecordWins,
		&boxer.RecordLosses,
		&boxer.RecordDraws,
		&boxer.CreatedAt,
		&boxer.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err), zap.String("key", utils.MaskID(arg)))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &boxer, nil
}
