package mysql

import (
	"database/sql/driver"
	"errors"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/syssam/dialect"
)

// MySQL server error numbers this dialect cares about.
const (
	errDupEntry        = 1062 // ER_DUP_ENTRY
	errDupEntryWithKey = 1586 // ER_DUP_ENTRY_WITH_KEY_NAME
	errRowIsReferenced = 1451 // ER_ROW_IS_REFERENCED_2: cannot delete parent
	errNoReferencedRow = 1452 // ER_NO_REFERENCED_ROW_2: cannot add child
	errCantDropKey     = 1091 // ER_CANT_DROP_FIELD_OR_KEY

	errDBAccessDenied = 1044 // ER_DBACCESS_DENIED_ERROR
	errAccessDenied   = 1045 // ER_ACCESS_DENIED_ERROR
	errHostBlocked    = 1129 // ER_HOST_IS_BLOCKED
	errHostNotAllowed = 1130 // ER_HOST_NOT_PRIVILEGED
	errOldAuthProto   = 1251 // ER_NOT_SUPPORTED_AUTH_MODE
	errAccessDeniedNP = 1698 // ER_ACCESS_DENIED_NO_PASSWORD_ERROR
)

var (
	// "Duplicate entry 'jane@acme.io' for key 'users.email_unique'"
	dupEntryRe = regexp.MustCompile(`Duplicate entry '(.*)' for key '(.+)'`)
	// "... CONSTRAINT `fk_owner` FOREIGN KEY ..."
	fkConstraintRe = regexp.MustCompile("CONSTRAINT `(.+?)` FOREIGN KEY")
	// "... fails (`app`.`pets`, CONSTRAINT ..."
	fkTableRe = regexp.MustCompile("`[^`]+`\\.`([^`]+)`")
	// "Can't DROP 'email_idx'; check that column/key exists"
	cantDropRe = regexp.MustCompile(`Can't DROP '?([^';]+)'?`)
)

// ErrorCode extracts the native server error number, or "" for errors
// that carry none (network failures, bad connections).
func (*Dialect) ErrorCode(err error) string {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return strconv.Itoa(int(me.Number))
	}
	return ""
}

// Translate classifies a native driver error into the canonical taxonomy.
// Matching is ordered, first match wins, and the function is total: any
// non-nil error yields exactly one canonical error.
func (d *Dialect) Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case dialect.IsConstraint(err), dialect.IsConnection(err), dialect.IsDatabase(err):
		// Already canonical.
		return err
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errDupEntry, errDupEntryWithKey:
			constraint, table, fields := parseDupEntry(me.Message)
			return dialect.NewUniqueConstraintError(constraint, table, fields, err)
		case errRowIsReferenced, errNoReferencedRow:
			constraint, table := parseFKViolation(me.Message)
			return dialect.NewForeignKeyConstraintError(constraint, table, err)
		case errCantDropKey:
			constraint := ""
			if m := cantDropRe.FindStringSubmatch(me.Message); m != nil {
				constraint = m[1]
			}
			return dialect.NewUnknownConstraintError(constraint, err)
		case errDBAccessDenied, errAccessDenied, errHostBlocked,
			errHostNotAllowed, errOldAuthProto, errAccessDeniedNP:
			return dialect.NewConnectionRefusedError(err)
		}
		return dialect.NewDatabaseError(dialect.MySQL, err)
	}
	if isConnErr(err) {
		return dialect.NewConnectionError(err)
	}
	return dialect.NewDatabaseError(dialect.MySQL, err)
}

// isConnErr reports connection-level failures below the server protocol.
func isConnErr(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, dialect.ErrClosed) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	msg := err.Error()
	for _, s := range []string{"connection refused", "bad connection", "invalid connection", "broken pipe", "connection reset"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// parseDupEntry recovers the constraint name, table and offending
// column/value pair from an ER_DUP_ENTRY message. MySQL 8 qualifies the
// key as "table.index"; the column name is derived from the index name by
// stripping the table qualifier and the conventional suffixes.
func parseDupEntry(msg string) (constraint, table string, fields map[string]string) {
	m := dupEntryRe.FindStringSubmatch(msg)
	if m == nil {
		return "", "", nil
	}
	value, key := m[1], m[2]
	constraint = key
	if i := strings.IndexByte(key, '.'); i >= 0 {
		table, key = key[:i], key[i+1:]
	}
	column := key
	for _, suffix := range []string{"_unique", "_UNIQUE", "_key", "_idx"} {
		column = strings.TrimSuffix(column, suffix)
	}
	if column == "PRIMARY" {
		column = "id"
	}
	return constraint, table, map[string]string{column: value}
}

// parseFKViolation recovers the constraint and child table from an
// ER_NO_REFERENCED_ROW_2 / ER_ROW_IS_REFERENCED_2 message.
func parseFKViolation(msg string) (constraint, table string) {
	if m := fkConstraintRe.FindStringSubmatch(msg); m != nil {
		constraint = m[1]
	}
	if m := fkTableRe.FindStringSubmatch(msg); m != nil {
		table = m[1]
	}
	return constraint, table
}
