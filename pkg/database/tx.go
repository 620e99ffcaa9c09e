package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrTimeout is returned when a store call outlives its deadline.
	ErrTimeout = errors.New("store call timed out")
	// ErrBusy is returned when a transaction keeps aborting on contention.
	ErrBusy = errors.New("store contention, retries exhausted")
)

// postgres SQLSTATEs worth a fresh attempt
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeUniqueViolation      = "23505"
)

type TxOptions struct {
	Retries   int
	Timeout   time.Duration
	BaseDelay time.Duration
	OnRetry   func(attempt int, err error)
}

// RunInTx runs fn inside a transaction, committing on success and rolling back on
// error or panic. Serialization failures, deadlocks and lock timeouts are retried
// with exponential backoff up to opts.Retries extra attempts.
func RunInTx(ctx context.Context, db PgxIface, opts TxOptions, fn func(tx pgx.Tx) error) error {
	delay := opts.BaseDelay
	if delay <= 0 {
		delay = 20 * time.Millisecond
	}

	for attempt := 0; ; attempt++ {
		err := runOnce(ctx, db, opts.Timeout, fn)
		if err == nil {
			return nil
		}
		if IsTimeout(err) {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		if !IsRetryable(err) {
			return err
		}
		if attempt >= opts.Retries {
			return fmt.Errorf("%w: %v", ErrBusy, err)
		}
		if opts.OnRetry != nil {
			opts.OnRetry(attempt+1, err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
		case <-time.After(delay << attempt):
		}
	}
}

func runOnce(ctx context.Context, db PgxIface, timeout time.Duration, fn func(tx pgx.Tx) error) (err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// IsRetryable reports whether err is a transient contention failure.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return true
	}
	return false
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) || pgconn.Timeout(err)
}
