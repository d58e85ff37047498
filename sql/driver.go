// Package sql implements the dialect.Driver contract on top of
// database/sql: it owns the native connection pool, serializes access to
// checked-out connections, and normalizes raw driver result sets into the
// canonical rows-plus-metadata shape the ORM layer consumes.
package sql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync/atomic"

	"github.com/syssam/dialect"
)

// Driver is a dialect.Driver implementation for SQL based databases.
// It owns the native pool opened from a dialect and configuration, and is
// the sole source of checked-out connections.
type Driver struct {
	Conn
	adapter dialect.Dialect
	version string
	closed  atomic.Bool
}

// Open opens a native connection pool for the given dialect and
// configuration, and runs the one-time version probe. Open errors pass
// through the dialect's error translation, so an authentication failure
// surfaces as a ConnectionRefusedError rather than a raw driver error.
func Open(ctx context.Context, d dialect.Dialect, cfg *dialect.Config) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dsn, err := d.DSN(cfg)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, d.Translate(err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime.Std())
	}
	drv := &Driver{Conn: Conn{db, d}, adapter: d}
	if err := drv.probe(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return drv, nil
}

// OpenDB wraps an existing database/sql.DB with a Driver. No probe is run;
// the version is resolved lazily by Probe.
func OpenDB(d dialect.Dialect, db *sql.DB) *Driver {
	return &Driver{Conn: Conn{db, d}, adapter: d}
}

// probe pings the database and resolves the server version once.
func (d *Driver) probe(ctx context.Context) error {
	db := d.DB()
	if err := db.PingContext(ctx); err != nil {
		return d.adapter.Translate(err)
	}
	var version string
	if err := db.QueryRowContext(ctx, d.adapter.VersionQuery()).Scan(&version); err != nil {
		return d.adapter.Translate(err)
	}
	d.version = version
	return nil
}

// Probe runs the version probe if it has not run yet and returns the
// server version string.
func (d *Driver) Probe(ctx context.Context) (string, error) {
	if d.version == "" {
		if err := d.probe(ctx); err != nil {
			return "", err
		}
	}
	return d.version, nil
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB {
	return d.ExecQuerier.(*sql.DB)
}

// Adapter returns the dialect implementation the driver was opened with.
func (d *Driver) Adapter() dialect.Dialect { return d.adapter }

// Dialect implements the dialect.Dialect method.
func (d *Driver) Dialect() string { return d.adapter.Name() }

// Version returns the server version resolved by the probe, or "" if the
// driver was created with OpenDB and never probed.
func (d *Driver) Version() string { return d.version }

// Validate reports connection liveness without mutating driver state.
func (d *Driver) Validate(ctx context.Context) error {
	if d.closed.Load() {
		return dialect.NewConnectionError(dialect.ErrClosed)
	}
	if err := d.DB().PingContext(ctx); err != nil {
		return d.adapter.Translate(err)
	}
	return nil
}

// Tx starts and returns a transaction.
func (d *Driver) Tx(ctx context.Context) (dialect.Tx, error) {
	return d.BeginTx(ctx, nil)
}

// BeginTx starts a transaction with options.
func (d *Driver) BeginTx(ctx context.Context, opts *TxOptions) (dialect.Tx, error) {
	tx, err := d.DB().BeginTx(ctx, opts)
	if err != nil {
		return nil, d.adapter.Translate(err)
	}
	return &Tx{
		Conn: Conn{tx, d.adapter},
		Tx:   tx,
	}, nil
}

// Close closes the underlying pool. It is idempotent: the second and later
// calls are no-ops and do not reach the native driver.
func (d *Driver) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	return d.DB().Close()
}

// Closed reports whether Close has been called.
func (d *Driver) Closed() bool { return d.closed.Load() }

// Tx implements dialect.Tx interface.
type Tx struct {
	Conn
	driver.Tx
}

// ExecQuerier wraps the standard Exec and Query methods.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Conn implements dialect.ExecQuerier given ExecQuerier. Errors returned
// from the native driver are always passed through the dialect's Translate
// before they reach the caller.
type Conn struct {
	ExecQuerier
	adapter dialect.Dialect
}

// Exec implements the dialect.Exec method.
func (c Conn) Exec(ctx context.Context, query string, args, v any) error {
	argv, ok := args.([]any)
	if !ok {
		return fmt.Errorf("dialect/sql: invalid type %T. expect []any for args", args)
	}
	switch v := v.(type) {
	case nil:
		if _, err := c.ExecContext(ctx, query, c.bind(argv)...); err != nil {
			return c.adapter.Translate(err)
		}
	case *sql.Result:
		res, err := c.ExecContext(ctx, query, c.bind(argv)...)
		if err != nil {
			return c.adapter.Translate(err)
		}
		*v = res
	default:
		return fmt.Errorf("dialect/sql: invalid type %T. expect *sql.Result", v)
	}
	return nil
}

// Query implements the dialect.Query method.
func (c Conn) Query(ctx context.Context, query string, args, v any) error {
	vr, ok := v.(*Rows)
	if !ok {
		return fmt.Errorf("dialect/sql: invalid type %T. expect *sql.Rows", v)
	}
	argv, ok := args.([]any)
	if !ok {
		return fmt.Errorf("dialect/sql: invalid type %T. expect []any for args", args)
	}
	rows, err := c.QueryContext(ctx, query, c.bind(argv)...)
	if err != nil {
		return c.adapter.Translate(err)
	}
	*vr = Rows{rows}
	return nil
}

// bind applies the dialect bind-parameter transform positionally.
func (c Conn) bind(args []any) []any {
	if len(args) == 0 {
		return args
	}
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = c.adapter.Bind(a)
	}
	return out
}

var _ dialect.Driver = (*Driver)(nil)

type (
	// Rows wraps the sql.Rows to avoid locks copy.
	Rows struct{ ColumnScanner }
	// StdResult is an alias to sql.Result.
	StdResult = sql.Result
	// NullBool is an alias to sql.NullBool.
	NullBool = sql.NullBool
	// NullInt64 is an alias to sql.NullInt64.
	NullInt64 = sql.NullInt64
	// NullString is an alias to sql.NullString.
	NullString = sql.NullString
	// NullFloat64 is an alias to sql.NullFloat64.
	NullFloat64 = sql.NullFloat64
	// NullTime represents a time.Time that may be null.
	NullTime = sql.NullTime
	// TxOptions holds the transaction options to be used in DB.BeginTx.
	TxOptions = sql.TxOptions
)

// NullScanner implements the sql.Scanner interface such that it
// can be used as a scan destination, similar to the types above.
type NullScanner struct {
	S     sql.Scanner
	Valid bool // Valid is true if the Scan value is not NULL.
}

// Scan implements the Scanner interface.
func (n *NullScanner) Scan(value any) error {
	n.Valid = value != nil
	if n.Valid {
		return n.S.Scan(value)
	}
	return nil
}

// ColumnScanner is the interface that wraps the standard
// sql.Rows methods used for scanning database rows.
type ColumnScanner interface {
	Close() error
	ColumnTypes() ([]*sql.ColumnType, error)
	Columns() ([]string, error)
	Err() error
	Next() bool
	NextResultSet() bool
	Scan(dest ...any) error
}
