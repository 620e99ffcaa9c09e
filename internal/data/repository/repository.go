package repository

import (
	"context"
	"errors"
	"time"

	"boxing-booking/pkg/database"
	"boxing-booking/pkg/metrics"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	// ErrDuplicate is returned when an insert collides with a unique key,
	// e.g. a second active booking for the same boxer and slot.
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotFound is returned by writes that matched no row.
	ErrNotFound = errors.New("record not found")
)

// Transactor runs fn against a Repository bound to a single transaction.
// Any error or panic from fn rolls the transaction back.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *Repository) error) error
}

type Repository struct {
	Session      SessionRepository
	Boxer        BoxerRepository
	Gym          GymRepository
	Slot         SlotRepository
	Booking      BookingRepository
	Counter      CounterRepository
	Notification NotificationRepository

	Tx Transactor
}

func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.Tx.WithTx(ctx, fn)
}

type TxConfig struct {
	Retries int
	Timeout time.Duration
}

func NewRepository(db database.PgxIface, log *zap.Logger, cfg TxConfig) *Repository {
	repo := build(db, log)
	repo.Tx = &pgTransactor{db: db, log: log.With(zap.String("repository", "tx")), cfg: cfg}
	return repo
}

func build(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Session:      NewSessionRepository(q, log),
		Boxer:        NewBoxerRepository(q, log),
		Gym:          NewGymRepository(q, log),
		Slot:         NewSlotRepository(q, log),
		Booking:      NewBookingRepository(q, log),
		Counter:      NewCounterRepository(q, log),
		Notification: NewNotificationRepository(q, log),
	}
}

type pgTransactor struct {
	db  database.PgxIface
	log *zap.Logger
	cfg TxConfig
}

func (t *pgTransactor) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	opts := database.TxOptions{
		Retries: t.cfg.Retries,
		Timeout: t.cfg.Timeout,
		OnRetry: func(attempt int, err error) {
			metrics.RecordTxRetry()
			t.log.Warn("Retrying transaction", zap.Int("attempt", attempt), zap.Error(err))
		},
	}

	return database.RunInTx(ctx, t.db, opts, func(tx pgx.Tx) error {
		scoped := build(tx, t.log)
		scoped.Tx = nested{scoped}
		return fn(scoped)
	})
}

// nested reuses the open transaction for WithTx calls made inside fn.
type nested struct {
	repo *Repository
}

func (n nested) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return fn(n.repo)
}

type scanner interface {
	Scan(dest ...any) error
}
