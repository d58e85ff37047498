package sqlite

import (
	"database/sql/driver"
	"errors"
	"net"
	"strconv"
	"strings"

	"github.com/syssam/dialect"
)

// SQLite result codes this dialect cares about. Constraint sub-codes are
// the extended result codes.
const (
	codeAuth                 = 23
	codeConstraintForeignKey = 787
	codeConstraintPrimaryKey = 1555
	codeConstraintUnique     = 2067
)

// errorCoder is implemented by the native driver's error type. Matching on
// the interface keeps the dialect independent of the driver's struct shape.
type errorCoder interface {
	Code() int
}

// ErrorCode extracts the native result code, or "" for errors that carry
// none.
func (*Dialect) ErrorCode(err error) string {
	if e, ok := asCoder(err); ok {
		return strconv.Itoa(e.Code())
	}
	return ""
}

// Translate classifies a native driver error into the canonical taxonomy.
// Matching is ordered, first match wins, and the function is total.
func (d *Dialect) Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case dialect.IsConstraint(err), dialect.IsConnection(err), dialect.IsDatabase(err):
		return err
	}
	msg := err.Error()
	code := 0
	if e, ok := asCoder(err); ok {
		code = e.Code()
	}
	switch {
	case code == codeConstraintUnique, code == codeConstraintPrimaryKey,
		strings.Contains(msg, "UNIQUE constraint failed"):
		constraint, table, fields := parseUniqueMessage(msg)
		return dialect.NewUniqueConstraintError(constraint, table, fields, err)
	case code == codeConstraintForeignKey,
		strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return dialect.NewForeignKeyConstraintError("", "", err)
	case strings.Contains(msg, "no such index"):
		return dialect.NewUnknownConstraintError(afterMarker(msg, "no such index: "), err)
	case code == codeAuth:
		return dialect.NewConnectionRefusedError(err)
	}
	if isConnErr(err) {
		return dialect.NewConnectionError(err)
	}
	return dialect.NewDatabaseError(dialect.SQLite, err)
}

// asCoder walks the error chain looking for the native coded error.
func asCoder(err error) (errorCoder, bool) {
	for err != nil {
		if e, ok := err.(errorCoder); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return nil, false
}

// isConnErr reports connection-level failures.
func isConnErr(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, dialect.ErrClosed) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "bad connection") || strings.Contains(msg, "database is closed")
}

// parseUniqueMessage recovers "table.column" pairs from messages of the
// form "UNIQUE constraint failed: users.email, users.org (2067)". The
// trailing parenthesized result code, when present, is dropped.
func parseUniqueMessage(msg string) (constraint, table string, fields map[string]string) {
	list := afterMarker(msg, "UNIQUE constraint failed: ")
	if i := strings.LastIndex(list, " ("); i >= 0 && strings.HasSuffix(list, ")") {
		list = list[:i]
	}
	if list == "" {
		return "", "", nil
	}
	constraint = list
	fields = make(map[string]string)
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if i := strings.IndexByte(part, '.'); i >= 0 {
			table = part[:i]
			// Attempted values are not part of the native message.
			fields[part[i+1:]] = ""
		} else if part != "" {
			fields[part] = ""
		}
	}
	if len(fields) == 0 {
		fields = nil
	}
	return constraint, table, fields
}

// afterMarker returns the trimmed remainder after the marker, or "".
func afterMarker(msg, marker string) string {
	if i := strings.Index(msg, marker); i >= 0 {
		return strings.TrimSpace(msg[i+len(marker):])
	}
	return ""
}
