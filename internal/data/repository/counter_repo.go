package repository

import (
	"context"
	"errors"
	"fmt"

	"boxing-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CounterRepository interface {
	// Increment atomically adds one, creating the counter at 1 when missing.
	Increment(ctx context.Context, name string) (int64, error)
	// Get treats a missing counter as zero.
	Get(ctx context.Context, name string) (int64, error)
}

type counterRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCounterRepository(db database.Querier, log *zap.Logger) CounterRepository {
	return &counterRepository{
		db:  db,
		log: log.With(zap.String("repository", "counter")),
	}
}

func (r *counterRepository) Increment(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO counters (name, count) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET count = counters.count + 1
		RETURNING count
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, name).Scan(&count); err != nil {
		r.log.Error("Failed to increment counter", zap.Error(err), zap.String("counter", name))
		return 0, fmt.Errorf("increment counter %s: %w", name, err)
	}
	return count, nil
}

func (r *counterRepository) Get(ctx context.Context, name string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count FROM counters WHERE name = $1`, name).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		r.log.Error("Failed to read counter", zap.Error(err), zap.String("counter", name))
		return 0, fmt.Errorf("read counter %s: %w", name, err)
	}
	return count, nil
}
