package sql_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dialect"
)

func TestConnect(t *testing.T) {
	ctx := context.Background()

	t.Run("Checkout", func(t *testing.T) {
		drv, _ := mockDriver(t)
		lock, err := drv.Connect(ctx)
		require.NoError(t, err)
		require.NoError(t, lock.Close())
	})

	t.Run("ClosedDriver", func(t *testing.T) {
		drv, mock := mockDriver(t)
		mock.ExpectClose()
		require.NoError(t, drv.Close())

		_, err := drv.Connect(ctx)
		require.Error(t, err)
		assert.True(t, dialect.IsConnection(err))
	})
}

func TestConnLockAcquire(t *testing.T) {
	ctx := context.Background()

	t.Run("SequentialReuse", func(t *testing.T) {
		drv, mock := mockDriver(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE t SET a = 1")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE t SET a = 2")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		lock, err := drv.Connect(ctx)
		require.NoError(t, err)
		defer lock.Close()

		for _, query := range []string{"UPDATE t SET a = 1", "UPDATE t SET a = 2"} {
			held, err := lock.Acquire(ctx)
			require.NoError(t, err)
			_, err = held.ExecContext(ctx, query)
			require.NoError(t, err)
			held.Release()
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SecondAcquireBlocks", func(t *testing.T) {
		drv, _ := mockDriver(t)
		lock, err := drv.Connect(ctx)
		require.NoError(t, err)
		defer lock.Close()

		held, err := lock.Acquire(ctx)
		require.NoError(t, err)

		// While the lock is held a second acquire waits; give it a short
		// deadline so the wait surfaces as a context error.
		short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		_, err = lock.Acquire(short)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		// Releasing unblocks the next caller.
		held.Release()
		next, err := lock.Acquire(ctx)
		require.NoError(t, err)
		next.Release()
	})

	t.Run("Closed", func(t *testing.T) {
		drv, _ := mockDriver(t)
		lock, err := drv.Connect(ctx)
		require.NoError(t, err)
		require.NoError(t, lock.Close())

		_, err = lock.Acquire(ctx)
		require.Error(t, err)
		assert.True(t, dialect.IsConnection(err))
		assert.ErrorIs(t, err, dialect.ErrClosed)
	})
}

func TestConnLockClose(t *testing.T) {
	ctx := context.Background()
	drv, _ := mockDriver(t)
	lock, err := drv.Connect(ctx)
	require.NoError(t, err)

	require.False(t, lock.Closed())
	require.NoError(t, lock.Close())
	assert.True(t, lock.Closed())

	// Idempotent.
	assert.NoError(t, lock.Close())

	err = lock.Validate(ctx)
	require.Error(t, err)
	assert.True(t, dialect.IsConnection(err))
}

func TestLockedConnRelease(t *testing.T) {
	ctx := context.Background()
	drv, _ := mockDriver(t)
	lock, err := drv.Connect(ctx)
	require.NoError(t, err)
	defer lock.Close()

	held, err := lock.Acquire(ctx)
	require.NoError(t, err)
	held.Release()

	// Extra releases are no-ops; the next acquire must still succeed
	// exactly once.
	held.Release()
	next, err := lock.Acquire(ctx)
	require.NoError(t, err)
	defer next.Release()

	// A released handle no longer reaches the connection.
	_, err = held.ExecContext(ctx, "SELECT 1")
	require.Error(t, err)
	assert.True(t, dialect.IsConnection(err))
	_, err = held.QueryContext(ctx, "SELECT 1")
	require.Error(t, err)
	assert.True(t, dialect.IsConnection(err))
}
