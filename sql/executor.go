package sql

import (
	"context"
	"log/slog"

	"github.com/syssam/dialect"
)

// Execute runs one statement on a connection checked out for the duration
// of the call: acquire, run, release, return to the pool, on every exit
// path. The raw result set is drained eagerly and normalized into a
// Result; native failures pass through the suppression rules and then the
// dialect's error translation.
func (d *Driver) Execute(ctx context.Context, query string, args ...any) (*Result, error) {
	lock, err := d.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer lock.Close()
	return lock.Execute(ctx, query, args...)
}

// Execute runs one statement on the locked connection, blocking until the
// lock is free.
func (l *ConnLock) Execute(ctx context.Context, query string, args ...any) (*Result, error) {
	held, err := l.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer held.Release()
	return execute(ctx, held, l.adapter, query, args)
}

func execute(ctx context.Context, ex ExecQuerier, d dialect.Dialect, query string, args []any) (*Result, error) {
	kind := Classify(query)
	bound := make([]any, len(args))
	for i, a := range args {
		bound[i] = d.Bind(a)
	}
	// Transaction control never runs through the row path, regardless
	// of what the native driver would report for it.
	if kind.TxControl() {
		if _, err := ex.ExecContext(ctx, query); err != nil {
			return failure(d, kind, err)
		}
		return &Result{Kind: kind}, nil
	}
	if kind.ReturnsRows() {
		rows, err := ex.QueryContext(ctx, query, bound...)
		if err != nil {
			return failure(d, kind, err)
		}
		defer rows.Close()
		columns, records, err := readRows(rows, d.Parsers())
		if err != nil {
			return failure(d, kind, err)
		}
		return &Result{Kind: kind, Columns: columns, Rows: records}, nil
	}
	res, err := ex.ExecContext(ctx, query, bound...)
	if err != nil {
		return failure(d, kind, err)
	}
	out := &Result{Kind: kind}
	if kind == KindInsert {
		// Drivers without insert-id support (e.g. lib/pq) error here;
		// the generated key stays zero for them.
		if id, err := res.LastInsertId(); err == nil {
			out.LastInsertID = id
		}
	}
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	return out, nil
}

// failure consults the suppression rules and either swallows the native
// error, yielding an empty successful result, or translates it.
func failure(d dialect.Dialect, kind Kind, err error) (*Result, error) {
	if d.Rules().Match(kind.String(), d.ErrorCode(err), err.Error()) {
		slog.Debug("suppressed benign database error",
			"dialect", d.Name(), "kind", kind.String(), "error", err)
		return &Result{Kind: kind}, nil
	}
	return nil, d.Translate(err)
}
