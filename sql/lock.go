package sql

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/syssam/dialect"
)

// ConnLock wraps exactly one checked-out native connection and enforces at
// most one in-flight operation on it. Concurrent Acquire calls serialize:
// the second caller blocks until the first releases. Connections across
// different locks run independently.
type ConnLock struct {
	conn    *sql.Conn
	adapter dialect.Dialect
	sem     *semaphore.Weighted
	closed  atomic.Bool
}

// Connect checks a dedicated connection out of the native pool and wraps
// it in a lock. The caller owns the lock until Close returns it to the
// pool.
func (d *Driver) Connect(ctx context.Context) (*ConnLock, error) {
	if d.closed.Load() {
		return nil, dialect.NewConnectionError(dialect.ErrClosed)
	}
	conn, err := d.DB().Conn(ctx)
	if err != nil {
		return nil, d.adapter.Translate(err)
	}
	return newConnLock(conn, d.adapter), nil
}

func newConnLock(conn *sql.Conn, adapter dialect.Dialect) *ConnLock {
	return &ConnLock{
		conn:    conn,
		adapter: adapter,
		sem:     semaphore.NewWeighted(1),
	}
}

// Acquire blocks until the connection is free and returns the handle for
// running statements on it. Acquiring a closed lock fails with a
// connection error instead of hanging. The returned handle must be
// released exactly once on every exit path; extra releases are no-ops.
func (l *ConnLock) Acquire(ctx context.Context) (*LockedConn, error) {
	if l.closed.Load() {
		return nil, dialect.NewConnectionError(dialect.ErrClosed)
	}
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("dialect/sql: acquire connection: %w", err)
	}
	// The lock may have been closed while this caller was queued.
	if l.closed.Load() {
		l.sem.Release(1)
		return nil, dialect.NewConnectionError(dialect.ErrClosed)
	}
	return &LockedConn{lock: l}, nil
}

// Validate reports connection liveness without mutating lock state.
func (l *ConnLock) Validate(ctx context.Context) error {
	if l.closed.Load() {
		return dialect.NewConnectionError(dialect.ErrClosed)
	}
	if err := l.conn.PingContext(ctx); err != nil {
		return l.adapter.Translate(err)
	}
	return nil
}

// Close returns the connection to the native pool. It is idempotent: the
// second and later calls are no-ops and never reach the native driver.
func (l *ConnLock) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	return l.conn.Close()
}

// Closed reports whether the lock has been closed.
func (l *ConnLock) Closed() bool { return l.closed.Load() }

// LockedConn is the handle to a connection while its lock is held. It is
// valid until Release is called.
type LockedConn struct {
	lock     *ConnLock
	released atomic.Bool
}

// Release frees the connection for the next waiter. Releasing more than
// once is a no-op.
func (c *LockedConn) Release() {
	if c.released.CompareAndSwap(false, true) {
		c.lock.sem.Release(1)
	}
}

// ExecContext runs a statement on the locked connection.
func (c *LockedConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if c.released.Load() {
		return nil, dialect.NewConnectionError(dialect.ErrClosed)
	}
	return c.lock.conn.ExecContext(ctx, query, args...)
}

// QueryContext runs a query on the locked connection.
func (c *LockedConn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if c.released.Load() {
		return nil, dialect.NewConnectionError(dialect.ErrClosed)
	}
	return c.lock.conn.QueryContext(ctx, query, args...)
}

var _ ExecQuerier = (*LockedConn)(nil)
