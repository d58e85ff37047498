package sql

import "strings"

// Kind is the statement kind the executor shapes its result by. The
// classification mirrors what the ORM layer expects from its
// IsSelect/IsInsert helpers: it looks at the leading keyword only and is
// deliberately ignorant of the statement body.
type Kind uint8

// Statement kinds.
const (
	KindUnknown Kind = iota
	KindSelect
	KindInsert
	KindUpdate
	KindDelete
	KindBegin
	KindCommit
	KindRollback
	KindSavepoint
	KindRelease
	KindCreate
	KindAlter
	KindDrop
	KindTruncate
	KindShow
)

var kindNames = [...]string{
	KindUnknown:   "unknown",
	KindSelect:    "select",
	KindInsert:    "insert",
	KindUpdate:    "update",
	KindDelete:    "delete",
	KindBegin:     "begin",
	KindCommit:    "commit",
	KindRollback:  "rollback",
	KindSavepoint: "savepoint",
	KindRelease:   "release",
	KindCreate:    "create",
	KindAlter:     "alter",
	KindDrop:      "drop",
	KindTruncate:  "truncate",
	KindShow:      "show",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// TxControl reports whether the kind is a transaction control statement.
// These execute as zero-row operations, never through the row path.
func (k Kind) TxControl() bool {
	switch k {
	case KindBegin, KindCommit, KindRollback, KindSavepoint, KindRelease:
		return true
	}
	return false
}

// ReturnsRows reports whether statements of this kind produce a result set.
func (k Kind) ReturnsRows() bool {
	return k == KindSelect || k == KindShow
}

// DDL reports whether the kind is a schema statement.
func (k Kind) DDL() bool {
	switch k {
	case KindCreate, KindAlter, KindDrop, KindTruncate:
		return true
	}
	return false
}

var keywordKinds = map[string]Kind{
	"SELECT":    KindSelect,
	"WITH":      KindSelect,
	"VALUES":    KindSelect,
	"TABLE":     KindSelect,
	"SHOW":      KindShow,
	"PRAGMA":    KindShow,
	"EXPLAIN":   KindShow,
	"DESCRIBE":  KindShow,
	"DESC":      KindShow,
	"INSERT":    KindInsert,
	"REPLACE":   KindInsert,
	"UPDATE":    KindUpdate,
	"DELETE":    KindDelete,
	"BEGIN":     KindBegin,
	"START":     KindBegin,
	"COMMIT":    KindCommit,
	"END":       KindCommit,
	"ROLLBACK":  KindRollback,
	"SAVEPOINT": KindSavepoint,
	"RELEASE":   KindRelease,
	"CREATE":    KindCreate,
	"ALTER":     KindAlter,
	"DROP":      KindDrop,
	"TRUNCATE":  KindTruncate,
}

// Classify returns the kind of the statement by its leading keyword,
// skipping whitespace and SQL comments.
func Classify(query string) Kind {
	word := firstKeyword(query)
	if word == "" {
		return KindUnknown
	}
	// ROLLBACK TO SAVEPOINT releases to a savepoint, not the
	// transaction. Callers that care inspect the kind only, so
	// plain ROLLBACK classification is kept for both.
	if k, ok := keywordKinds[word]; ok {
		return k
	}
	return KindUnknown
}

// firstKeyword extracts the first bare word of the statement, upper-cased.
func firstKeyword(query string) string {
	s := query
	for {
		s = strings.TrimLeft(s, " \t\r\n;")
		switch {
		case strings.HasPrefix(s, "--"):
			i := strings.IndexByte(s, '\n')
			if i < 0 {
				return ""
			}
			s = s[i+1:]
		case strings.HasPrefix(s, "/*"):
			i := strings.Index(s, "*/")
			if i < 0 {
				return ""
			}
			s = s[i+2:]
		default:
			end := 0
			for end < len(s) {
				c := s[end]
				if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '(' || c == ';' {
					break
				}
				end++
			}
			return strings.ToUpper(s[:end])
		}
	}
}

// IsSelect reports whether the query produces a row set.
func IsSelect(query string) bool { return Classify(query).ReturnsRows() }

// IsInsert reports whether the query is an insert statement.
func IsInsert(query string) bool { return Classify(query) == KindInsert }

// IsUpdate reports whether the query is an update statement.
func IsUpdate(query string) bool { return Classify(query) == KindUpdate }

// IsDelete reports whether the query is a delete statement.
func IsDelete(query string) bool { return Classify(query) == KindDelete }

// IsTxControl reports whether the query is a transaction control statement.
func IsTxControl(query string) bool { return Classify(query).TxControl() }

// IsDDL reports whether the query is a schema statement.
func IsDDL(query string) bool { return Classify(query).DDL() }
