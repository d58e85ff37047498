// Package dialect defines the contracts an ORM uses to talk to a concrete
// SQL database: the generic driver interfaces, the Dialect adapter that maps
// abstract column types and native driver errors into canonical forms, and
// the configuration shared by all dialects.
//
// A Dialect is selected at configuration time and passed to sql.Open:
//
//	drv, err := sql.Open(ctx, mysql.New(), &dialect.Config{
//	    Host:     "localhost",
//	    Port:     3306,
//	    Database: "app",
//	    User:     "app",
//	    Password: "secret",
//	})
//
// The sub-packages sql/mysql, sql/postgres and sql/sqlite provide the
// concrete implementations.
package dialect

import (
	"context"

	"github.com/syssam/dialect/field"
)

// Dialect names.
const (
	MySQL    = "mysql"
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// ExecQuerier wraps the two standard database operations.
type ExecQuerier interface {
	// Exec executes a query that does not return records. For example, in SQL, INSERT or UPDATE.
	// It scans the result into the pointer v. For SQL drivers, it is dialect/sql.Result.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a query that returns rows, typically a SELECT in SQL.
	// It scans the result into the pointer v. For SQL drivers, it is *dialect/sql.Rows.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all database operations.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	// The provided context is used until the transaction is committed or rolled back.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps the Exec and Query operations in transaction.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}

// Dialect adapts the generic driver contracts to a specific database.
// Implementations are stateless apart from their parser registry and
// suppression rules, and are safe for concurrent use.
type Dialect interface {
	// Name returns the dialect name: MySQL, Postgres or SQLite.
	Name() string
	// DriverName returns the name the native driver registered
	// itself under with database/sql.
	DriverName() string
	// DSN renders the data source name for the native driver from
	// the given configuration. Entries of Config.Options are merged
	// verbatim into the native connect string.
	DSN(*Config) (string, error)
	// ColumnType maps a column descriptor to the dialect SQL type
	// string used in DDL. Options the dialect does not support are
	// cleared silently; ColumnType never fails.
	ColumnType(*field.Descriptor) string
	// Literal renders a Go value as a SQL literal for inline embedding.
	Literal(any) string
	// Bind transforms a Go value into the form the native driver
	// expects as a bind parameter.
	Bind(any) any
	// Translate classifies a native driver error into one of the
	// canonical error types of this package. It is total: any non-nil
	// input yields exactly one canonical error, defaulting to
	// *DatabaseError. Translate(nil) returns nil.
	Translate(error) error
	// ErrorCode extracts the native error code from a driver error,
	// or "" when the error carries none.
	ErrorCode(error) string
	// Parsers returns the registry of per-column-type parse functions
	// applied to values returned from the native driver.
	Parsers() *Registry
	// Rules returns the suppression rules for benign native errors.
	Rules() *Rules
	// VersionQuery returns the statement used for the one-time
	// version/capability probe after connecting.
	VersionQuery() string
}
