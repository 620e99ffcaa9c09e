package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

type fakePool struct {
	PgxIface
	txs []*fakeTx
}

func (p *fakePool) Begin(context.Context) (pgx.Tx, error) {
	tx := &fakeTx{}
	p.txs = append(p.txs, tx)
	return tx, nil
}

var fastRetry = TxOptions{Retries: 3, BaseDelay: time.Millisecond}

func TestRunInTxRetriesContention(t *testing.T) {
	pool := &fakePool{}
	var retried []int
	opts := fastRetry
	opts.OnRetry = func(attempt int, _ error) { retried = append(retried, attempt) }

	calls := 0
	err := RunInTx(context.Background(), pool, opts, func(pgx.Tx) error {
		calls++
		if calls < 3 {
			return &pgconn.PgError{Code: codeSerializationFailure}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
	require.Len(t, pool.txs, 3)
	assert.True(t, pool.txs[0].rolledBack)
	assert.True(t, pool.txs[2].committed)
}

func TestRunInTxGivesUpAsBusy(t *testing.T) {
	pool := &fakePool{}
	err := RunInTx(context.Background(), pool, fastRetry, func(pgx.Tx) error {
		return &pgconn.PgError{Code: codeDeadlockDetected}
	})

	assert.ErrorIs(t, err, ErrBusy)
	assert.Len(t, pool.txs, fastRetry.Retries+1)
}

func TestRunInTxReturnsBusinessErrorUnchanged(t *testing.T) {
	pool := &fakePool{}
	rejected := errors.New("slot is full")

	err := RunInTx(context.Background(), pool, fastRetry, func(pgx.Tx) error { return rejected })

	assert.Same(t, rejected, err)
	require.Len(t, pool.txs, 1)
	assert.True(t, pool.txs[0].rolledBack)
	assert.False(t, pool.txs[0].committed)
}

func TestRunInTxMapsDeadline(t *testing.T) {
	pool := &fakePool{}
	err := RunInTx(context.Background(), pool, fastRetry, func(pgx.Tx) error {
		return context.DeadlineExceeded
	})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.True(t, IsTimeout(err))
}

func TestRunInTxRollsBackOnPanic(t *testing.T) {
	pool := &fakePool{}
	assert.Panics(t, func() {
		_ = RunInTx(context.Background(), pool, fastRetry, func(pgx.Tx) error { panic("boom") })
	})
	require.Len(t, pool.txs, 1)
	assert.True(t, pool.txs[0].rolledBack)
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsRetryable(&pgconn.PgError{Code: codeLockNotAvailable}))
	assert.False(t, IsRetryable(&pgconn.PgError{Code: codeUniqueViolation}))
	assert.False(t, IsRetryable(errors.New("plain")))

	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: codeUniqueViolation}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: codeSerializationFailure}))
}

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@db:5432/gym?sslmode=disable", "pgx5://u:p@db:5432/gym?sslmode=disable"},
		{"postgresql://u@db/gym", "pgx5://u@db/gym"},
		{"pgx5://u@db/gym", "pgx5://u@db/gym"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, migrateURL(tt.in))
	}
}
