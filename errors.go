package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-openapi/inflect"
)

// Standard sentinel errors for connection handling.
var (
	// ErrClosed is returned when an operation is attempted on a driver
	// or connection that has already been closed.
	ErrClosed = errors.New("dialect: connection closed")
)

// UniqueConstraintError is returned when an insert or update violates a
// uniqueness constraint. Fields maps the offending column names to the
// values that were rejected, as far as they can be recovered from the
// native error message.
type UniqueConstraintError struct {
	Constraint string            // Native constraint or index name.
	Label      string            // Singular entity label derived from the table, if known.
	Fields     map[string]string // Offending column name -> attempted value.
	wrap       error
}

// Error returns the error string.
func (e *UniqueConstraintError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for k, v := range e.Fields {
			parts = append(parts, fmt.Sprintf("%s=%q", k, v))
		}
		sort.Strings(parts)
		return fmt.Sprintf("dialect: unique constraint %q violated: %s", e.Constraint, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("dialect: unique constraint %q violated", e.Constraint)
}

// Unwrap returns the native driver error.
func (e *UniqueConstraintError) Unwrap() error { return e.wrap }

// NewUniqueConstraintError returns a new UniqueConstraintError wrapping the
// native error. The table name, if known, is singularized into the Label.
func NewUniqueConstraintError(constraint, table string, fields map[string]string, wrap error) *UniqueConstraintError {
	return &UniqueConstraintError{
		Constraint: constraint,
		Label:      ConstraintLabel(table),
		Fields:     fields,
		wrap:       wrap,
	}
}

// IsUniqueConstraint returns true if the error is a UniqueConstraintError.
func IsUniqueConstraint(err error) bool {
	if err == nil {
		return false
	}
	var e *UniqueConstraintError
	return errors.As(err, &e)
}

// ForeignKeyConstraintError is returned when a statement violates a
// foreign-key constraint, either by referencing a missing parent row or by
// removing a row that is still referenced.
type ForeignKeyConstraintError struct {
	Constraint string
	Label      string
	wrap       error
}

// Error returns the error string.
func (e *ForeignKeyConstraintError) Error() string {
	return fmt.Sprintf("dialect: foreign key constraint %q violated", e.Constraint)
}

// Unwrap returns the native driver error.
func (e *ForeignKeyConstraintError) Unwrap() error { return e.wrap }

// NewForeignKeyConstraintError returns a new ForeignKeyConstraintError.
func NewForeignKeyConstraintError(constraint, table string, wrap error) *ForeignKeyConstraintError {
	return &ForeignKeyConstraintError{Constraint: constraint, Label: ConstraintLabel(table), wrap: wrap}
}

// IsForeignKeyConstraint returns true if the error is a ForeignKeyConstraintError.
func IsForeignKeyConstraint(err error) bool {
	if err == nil {
		return false
	}
	var e *ForeignKeyConstraintError
	return errors.As(err, &e)
}

// UnknownConstraintError is returned when a constraint, index or key could
// not be dropped because the database does not know it.
type UnknownConstraintError struct {
	Constraint string
	wrap       error
}

// Error returns the error string.
func (e *UnknownConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("dialect: unknown constraint %q", e.Constraint)
	}
	return "dialect: unknown constraint"
}

// Unwrap returns the native driver error.
func (e *UnknownConstraintError) Unwrap() error { return e.wrap }

// NewUnknownConstraintError returns a new UnknownConstraintError.
func NewUnknownConstraintError(constraint string, wrap error) *UnknownConstraintError {
	return &UnknownConstraintError{Constraint: constraint, wrap: wrap}
}

// IsUnknownConstraint returns true if the error is an UnknownConstraintError.
func IsUnknownConstraint(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownConstraintError
	return errors.As(err, &e)
}

// IsConstraint returns true if the error resulted from any database
// constraint violation.
func IsConstraint(err error) bool {
	return IsUniqueConstraint(err) || IsForeignKeyConstraint(err) || IsUnknownConstraint(err)
}

// ConnectionRefusedError is returned when the database actively refused the
// session during handshake or authentication. Callers typically should not
// retry these with the same credentials.
type ConnectionRefusedError struct {
	wrap error
}

// Error returns the error string.
func (e *ConnectionRefusedError) Error() string {
	return fmt.Sprintf("dialect: connection refused: %v", e.wrap)
}

// Unwrap returns the native driver error.
func (e *ConnectionRefusedError) Unwrap() error { return e.wrap }

// NewConnectionRefusedError returns a new ConnectionRefusedError.
func NewConnectionRefusedError(wrap error) *ConnectionRefusedError {
	return &ConnectionRefusedError{wrap: wrap}
}

// IsConnectionRefused returns true if the error is a ConnectionRefusedError.
func IsConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	var e *ConnectionRefusedError
	return errors.As(err, &e)
}

// ConnectionError is returned for connection-level failures other than an
// active refusal: unreachable hosts, dropped sessions, closed handles.
// These are the errors a caller may reasonably retry.
type ConnectionError struct {
	wrap error
}

// Error returns the error string.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("dialect: connection error: %v", e.wrap)
}

// Unwrap returns the native driver error.
func (e *ConnectionError) Unwrap() error { return e.wrap }

// NewConnectionError returns a new ConnectionError.
func NewConnectionError(wrap error) *ConnectionError {
	return &ConnectionError{wrap: wrap}
}

// IsConnection returns true if the error is a ConnectionError or a
// ConnectionRefusedError.
func IsConnection(err error) bool {
	if err == nil {
		return false
	}
	var e *ConnectionError
	return errors.As(err, &e) || IsConnectionRefused(err)
}

// DatabaseError is the catch-all for native errors that match no more
// specific category. Translate never fails: anything unclassified lands here.
type DatabaseError struct {
	dialect string
	wrap    error
}

// Error returns the error string.
func (e *DatabaseError) Error() string {
	return fmt.Sprintf("dialect: %s: %v", e.dialect, e.wrap)
}

// Unwrap returns the native driver error.
func (e *DatabaseError) Unwrap() error { return e.wrap }

// NewDatabaseError returns a new DatabaseError for the given dialect.
func NewDatabaseError(dialect string, wrap error) *DatabaseError {
	return &DatabaseError{dialect: dialect, wrap: wrap}
}

// IsDatabase returns true if the error is a DatabaseError.
func IsDatabase(err error) bool {
	if err == nil {
		return false
	}
	var e *DatabaseError
	return errors.As(err, &e)
}

// ConstraintLabel derives a singular entity label from a table name, e.g.
// "user_accounts" becomes "user_account". It returns "" for an empty table.
func ConstraintLabel(table string) string {
	if table == "" {
		return ""
	}
	return inflect.Singularize(table)
}
