package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"boxing-booking/internal/data/entity"
	"boxing-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SlotRepository interface {
	Create(ctx context.Context, slot *entity.Slot) error
	FindByID(ctx context.Context, slotID string) (*entity.Slot, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, slotID string) (*entity.Slot, error)
	Update(ctx context.Context, slot *entity.Slot) error
	// AdjustBookings shifts current_bookings by delta, floored at zero.
	AdjustBookings(ctx context.Context, slotID string, delta int, now time.Time) (*entity.Slot, error)

	FindActiveByGymAndDate(ctx context.Context, gymID, date string) ([]*entity.Slot, error)
	ListByGym(ctx context.Context, gymID string, filter entity.SlotStatusFilter) ([]*entity.Slot, error)
	ListOpen(ctx context.Context, q entity.SlotQuery) ([]*entity.Slot, error)

	// LockGym serialises slot mutations of one gym for the rest of the transaction.
	LockGym(ctx context.Context, gymID string) error

	ListStaleIDs(ctx context.Context, before string) ([]string, error)
	Archive(ctx context.Context, slotID string, now time.Time) (bool, error)
}

type slotRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSlotRepository(db database.Querier, log *zap.Logger) SlotRepository {
	return &slotRepository{
		db:  db,
		log: log.With(zap.String("repository", "slot")),
	}
}

const slotColumns = `slot_id, gym_id, user_id, date, start_time, end_time, max_boxers,
	current_bookings, status, archived, archived_at, created_at, updated_at`

func scanSlot(row scanner) (*entity.Slot, error) {
	var slot entity.Slot
	err := row.Scan(
		&slot.SlotID,
		&slot.GymID,
		&slot.UserID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.MaxBoxers,
		&slot.CurrentBookings,
		&slot.Status,
		&slot.Archived,
		&slot.ArchivedAt,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepository) Create(ctx context.Context, slot *entity.Slot) error {
	query := `
		INSERT INTO gym_slots (slot_id, gym_id, user_id, date, start_time, end_time, max_boxers,
		                       current_bookings, status, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		slot.SlotID,
		slot.GymID,
		slot.UserID,
		slot.Date,
		slot.StartTime,
		slot.EndTime,
		slot.MaxBoxers,
		slot.CurrentBookings,
		slot.Status,
		slot.Archived,
		slot.CreatedAt,
		slot.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create slot",
			zap.Error(err),
			zap.String("slot_id", slot.SlotID),
			zap.String("gym_id", slot.GymID),
		)
		return fmt.Errorf("create slot %s: %w", slot.SlotID, err)
	}

	return nil
}

func (r *slotRepository) FindByID(ctx context.Context, slotID string) (*entity.Slot, error) {
	return r.findOne(ctx, `SELECT `+slotColumns+` FROM gym_slots WHERE slot_id = $1`, slotID)
}

func (r *slotRepository) FindByIDForUpdate(ctx context.Context, slotID string) (*entity.Slot, error) {
	return r.findOne(ctx, `SELECT `+slotColumns+` FROM gym_slots WHERE slot_id = $1 FOR UPDATE`, slotID)
}

func (r *slotRepository) findOne(ctx context.Context, query, slotID string) (*entity.Slot, error) {
	slot, err := scanSlot(r.db.QueryRow(ctx, query, slotID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find slot by ID",
			zap.Error(err),
			zap.String("slot_id", slotID),
		)
		return nil, fmt.Errorf("find slot by ID %s: %w", slotID, err)
	}
	return slot, nil
}

func (r *slotRepository) Update(ctx context.Context, slot *entity.Slot) error {
	query := `
		UPDATE gym_slots
		SET date = $2, start_time = $3, end_time = $4, max_boxers = $5,
		    current_bookings = $6, status = $7, updated_at = $8
		WHERE slot_id = $1
	`

	result, err := r.db.Exec(ctx, query,
		slot.SlotID,
		slot.Date,
		slot.StartTime,
		slot.EndTime,
		slot.MaxBoxers,
		slot.CurrentBookings,
		slot.Status,
		slot.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update slot",
			zap.Error(err),
			zap.String("slot_id", slot.SlotID),
		)
		return fmt.Errorf("update slot %s: %w", slot.SlotID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("slot %s: %w", slot.SlotID, ErrNotFound)
	}

	return nil
}

func (r *slotRepository) AdjustBookings(ctx context.Context, slotID string, delta int, now time.Time) (*entity.Slot, error) {
	query := `
		UPDATE gym_slots
		SET current_bookings = GREATEST(0, current_bookings + $2), updated_at = $3
		WHERE slot_id = $1
		RETURNING ` + slotColumns

	slot, err := scanSlot(r.db.QueryRow(ctx, query, slotID, delta, now))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("slot %s: %w", slotID, ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to adjust slot bookings",
			zap.Error(err),
			zap.String("slot_id", slotID),
			zap.Int("delta", delta),
		)
		return nil, fmt.Errorf("adjust bookings of slot %s by %d: %w", slotID, delta, err)
	}
	return slot, nil
}

func (r *slotRepository) FindActiveByGymAndDate(ctx context.Context, gymID, date string) ([]*entity.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM gym_slots
		WHERE gym_id = $1 AND date = $2 AND status = 'active' AND archived = FALSE
		ORDER BY start_time
	`
	return r.list(ctx, "find active slots by gym and date", query, gymID, date)
}

func (r *slotRepository) ListByGym(ctx context.Context, gymID string, filter entity.SlotStatusFilter) ([]*entity.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM gym_slots
		WHERE gym_id = $1 AND archived = FALSE
		  AND ($2 = 'all' OR status = $2)
		ORDER BY date, start_time
	`
	if filter == "" {
		filter = entity.SlotFilterAll
	}
	return r.list(ctx, "list slots by gym", query, gymID, string(filter))
}

func (r *slotRepository) ListOpen(ctx context.Context, q entity.SlotQuery) ([]*entity.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM gym_slots
		WHERE status = 'active' AND archived = FALSE
		  AND ($1 = '' OR date >= $1)
		  AND ($2 = '' OR date <= $2)
		  AND ($3 = '' OR gym_id = $3)
		ORDER BY date, start_time
		LIMIT NULLIF($4, 0)
	`
	return r.list(ctx, "list open slots", query, q.DateFrom, q.DateTo, q.GymID, q.Limit)
}

func (r *slotRepository) list(ctx context.Context, op, query string, args ...any) ([]*entity.Slot, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err), zap.Any("args", args))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var slots []*entity.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			r.log.Error("Failed to scan slot row", zap.Error(err))
			return nil, fmt.Errorf("scan slot row: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return slots, nil
}

func (r *slotRepository) LockGym(ctx context.Context, gymID string) error {
	_, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, gymID)
	if err != nil {
		r.log.Error("Failed to lock gym", zap.Error(err), zap.String("gym_id", gymID))
		return fmt.Errorf("lock gym %s: %w", gymID, err)
	}
	return nil
}

func (r *slotRepository) ListStaleIDs(ctx context.Context, before string) ([]string, error) {
	query := `SELECT slot_id FROM gym_slots WHERE date < $1 AND archived = FALSE ORDER BY date`
	return collectIDs(ctx, r.db, r.log, "list stale slots", query, before)
}

func (r *slotRepository) Archive(ctx context.Context, slotID string, now time.Time) (bool, error) {
	query := `
		UPDATE gym_slots
		SET archived = TRUE, archived_at = $2, updated_at = $2
		WHERE slot_id = $1 AND archived = FALSE
	`

	result, err := r.db.Exec(ctx, query, slotID, now)
	if err != nil {
		r.log.Error("Failed to archive slot", zap.Error(err), zap.String("slot_id", slotID))
		return false, fmt.Errorf("archive slot %s: %w", slotID, err)
	}
	return result.RowsAffected() > 0, nil
}

func collectIDs(ctx context.Context, db database.Querier, log *zap.Logger, op, query string, args ...any) ([]string, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		log.Error("Failed to "+op, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}
