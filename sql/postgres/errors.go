package postgres

import (
	"database/sql/driver"
	"errors"
	"net"
	"regexp"
	"strings"

	"github.com/lib/pq"

	"github.com/syssam/dialect"
)

// PostgreSQL SQLSTATE codes this dialect cares about.
const (
	stateUniqueViolation     = "23505"
	stateForeignKeyViolation = "23503"
	stateUndefinedObject     = "42704" // e.g. DROP CONSTRAINT on an unknown name
	stateInvalidAuth         = "28000"
	stateInvalidPassword     = "28P01"
)

// classConnection is the SQLSTATE class for connection exceptions.
const classConnection = "08"

// "Key (email)=(jane@acme.io) already exists."
var keyDetailRe = regexp.MustCompile(`Key \((.+?)\)=\((.+?)\)`)

// ErrorCode extracts the SQLSTATE code, or "" for errors that carry none.
func (*Dialect) ErrorCode(err error) string {
	var pe *pq.Error
	if errors.As(err, &pe) {
		return string(pe.Code)
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
	var pe *pq.Error
	if errors.As(err, &pe) {
		switch {
		case pe.Code == stateUniqueViolation:
			return dialect.NewUniqueConstraintError(pe.Constraint, pe.Table, parseKeyDetail(pe.Detail), err)
		case pe.Code == stateForeignKeyViolation:
			return dialect.NewForeignKeyConstraintError(pe.Constraint, pe.Table, err)
		case pe.Code == stateUndefinedObject:
			return dialect.NewUnknownConstraintError(pe.Constraint, err)
		case pe.Code == stateInvalidAuth, pe.Code == stateInvalidPassword:
			return dialect.NewConnectionRefusedError(err)
		case strings.HasPrefix(string(pe.Code), classConnection):
			return dialect.NewConnectionError(err)
		}
		return dialect.NewDatabaseError(dialect.Postgres, err)
	}
	if isConnErr(err) {
		return dialect.NewConnectionError(err)
	}
	return dialect.NewDatabaseError(dialect.Postgres, err)
}

// isConnErr reports connection-level failures below the server protocol.
func isConnErr(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, dialect.ErrClosed) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	msg := err.Error()
	for _, s := range []string{"connection refused", "bad connection", "broken pipe", "connection reset", "EOF"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// parseKeyDetail recovers the offending column/value pairs from the
// violation detail. Composite keys arrive as "Key (a, b)=(1, 2)".
func parseKeyDetail(detail string) map[string]string {
	m := keyDetailRe.FindStringSubmatch(detail)
	if m == nil {
		return nil
	}
	columns := strings.Split(m[1], ", ")
	values := strings.Split(m[2], ", ")
	if len(columns) != len(values) {
		return map[string]string{m[1]: m[2]}
	}
	fields := make(map[string]string, len(columns))
	for i, c := range columns {
		fields[c] = values[i]
	}
	return fields
}
