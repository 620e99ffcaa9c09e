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

type BookingRepository interface {
	// Create returns ErrDuplicate when the boxer already holds an active booking on the slot.
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, bookingID string) (*entity.Booking, error)
	FindByIDForUpdate(ctx context.Context, bookingID string) (*entity.Booking, error)
	FindActiveBySlotAndBoxer(ctx context.Context, slotID, boxerID string) (*entity.Booking, error)
	ListActiveBySlot(ctx context.Context, slotID string) ([]*entity.Booking, error)
	CountActiveBySlot(ctx context.Context, slotID string) (int, error)
	ListByBoxer(ctx context.Context, boxerID string, filter entity.BookingStatusFilter) ([]*entity.Booking, error)
	Cancel(ctx context.Context, bookingID string, now time.Time) error

	// ListArchivableIDs returns unarchived bookings whose slot is already archived.
	ListArchivableIDs(ctx context.Context) ([]string, error)
	Archive(ctx context.Context, bookingID string, now time.Time) (bool, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `booking_id, slot_id, gym_id, boxer_id, boxer_user_id, booking_time, status,
	cancelled_at, archived, archived_at, created_at, updated_at`

func scanBooking(row scanner) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.BookingID,
		&booking.SlotID,
		&booking.GymID,
		&booking.BoxerID,
		&booking.BoxerUserID,
		&booking.BookingTime,
		&booking.Status,
		&booking.CancelledAt,
		&booking.Archived,
		&booking.ArchivedAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO slot_bookings (booking_id, slot_id, gym_id, boxer_id, boxer_user_id, booking_time,
		                           status, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		booking.BookingID,
		booking.SlotID,
		booking.GymID,
		booking.BoxerID,
		booking.BoxerUserID,
		booking.BookingTime,
		booking.Status,
		booking.Archived,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if database.IsUniqueViolation(err) {
		r.log.Warn("Duplicate active booking rejected by index",
			zap.String("slot_id", booking.SlotID),
			zap.String("boxer_id", booking.BoxerID),
		)
		return fmt.Errorf("create booking %s: %w", booking.BookingID, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.BookingID),
			zap.String("slot_id", booking.SlotID),
		)
		return fmt.Errorf("create booking %s: %w", booking.BookingID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, bookingID string) (*entity.Booking, error) {
	return r.findOne(ctx, "find booking by ID",
		`SELECT `+bookingColumns+` FROM slot_bookings WHERE booking_id = $1`, bookingID)
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, bookingID string) (*entity.Booking, error) {
	return r.findOne(ctx, "lock booking by ID",
		`SELECT `+bookingColumns+` FROM slot_bookings WHERE booking_id = $1 FOR UPDATE`, bookingID)
}

func (r *bookingRepository) FindActiveBySlotAndBoxer(ctx context.Context, slotID, boxerID string) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM slot_bookings
		WHERE slot_id = $1 AND boxer_id = $2 AND status = 'active'
		LIMIT 1
	`
	return r.findOne(ctx, "find active booking by slot and boxer", query, slotID, boxerID)
}

func (r *bookingRepository) findOne(ctx context.Context, op, query string, args ...any) (*entity.Booking, error) {
	booking, err := scanBooking(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err), zap.Any("args", args))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return booking, nil
}

func (r *bookingRepository) ListActiveBySlot(ctx context.Context, slotID string) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM slot_bookings
		WHERE slot_id = $1 AND status = 'active'
		ORDER BY booking_time
	`
	return r.list(ctx, "list active bookings by slot", query, slotID)
}

func (r *bookingRepository) CountActiveBySlot(ctx context.Context, slotID string) (int, error) {
	query := `SELECT COUNT(*) FROM slot_bookings WHERE slot_id = $1 AND status = 'active'`

	var count int
	if err := r.db.QueryRow(ctx, query, slotID).Scan(&count); err != nil {
		r.log.Error("Failed to count active bookings",
			zap.Error(err),
			zap.String("slot_id", slotID),
		)
		return 0, fmt.Errorf("count active bookings of slot %s: %w", slotID, err)
	}
	return count, nil
}

func (r *bookingRepository) ListByBoxer(ctx context.Context, boxerID string, filter entity.BookingStatusFilter) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM slot_bookings
		WHERE boxer_id = $1 AND archived = FALSE
		  AND ($2 = 'all' OR status = $2)
		ORDER BY created_at DESC
	`
	if filter == "" {
		filter = entity.BookingFilterAll
	}
	return r.list(ctx, "list bookings by boxer", query, boxerID, string(filter))
}

func (r *bookingRepository) list(ctx context.Context, op, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err), zap.Any("args", args))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

func (r *bookingRepository) Cancel(ctx context.Context, bookingID string, now time.Time) error {
	query := `
		UPDATE slot_bookings
		SET status = 'cancelled', cancelled_at = $2, updated_at = $2
		WHERE booking_id = $1 AND status = 'active'
	`

	result, err := r.db.Exec(ctx, query, bookingID, now)
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", bookingID),
		)
		return fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("active booking %s: %w", bookingID, ErrNotFound)
	}

	return nil
}

func (r *bookingRepository) ListArchivableIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT b.booking_id
		FROM slot_bookings b
		JOIN gym_slots s ON s.slot_id = b.slot_id
		WHERE b.archived = FALSE AND s.archived = TRUE
	`
	return collectIDs(ctx, r.db, r.log, "list archivable bookings", query)
}

func (r *bookingRepository) Archive(ctx context.Context, bookingID string, now time.Time) (bool, error) {
	query := `
		UPDATE slot_bookings
		SET archived = TRUE, archived_at = $2, updated_at = $2
		WHERE booking_id = $1 AND archived = FALSE
	`

	result, err := r.db.Exec(ctx, query, bookingID, now)
	if err != nil {
		r.log.Error("Failed to archive booking", zap.Error(err), zap.String("booking_id", bookingID))
		return false, fmt.Errorf("archive booking %s: %w", bookingID, err)
	}
	return result.RowsAffected() > 0, nil
}
