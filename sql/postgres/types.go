package postgres

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/dialect"
	"github.com/syssam/dialect/field"
)

// maxVarchar is the PostgreSQL upper bound for varchar(n); longer strings
// fall back to text.
const maxVarchar = 10 << 20

// Time format used for literal embedding; fixed-width, locale independent.
const timeLayout = "2006-01-02 15:04:05.999999-07:00"

// ColumnType maps a column descriptor to the PostgreSQL SQL type string.
// Representation options PostgreSQL has no equivalent for (unsigned,
// zerofill) are cleared with a warning; the mapping succeeds regardless.
func (d *Dialect) ColumnType(t *field.Descriptor) string {
	if s, ok := t.SchemaTyp[dialect.Postgres]; ok {
		return s
	}
	if t.Type.Integer() && (t.Unsigned || t.ZeroFill) {
		slog.Warn("column options unsupported by dialect were dropped",
			"dialect", dialect.Postgres, "column", t.Name,
			"unsigned", t.Unsigned, "zerofill", t.ZeroFill)
	}
	switch t.Type {
	case field.TypeBool:
		return "boolean"
	case field.TypeInt:
		return "integer"
	case field.TypeInt64, field.TypeUint:
		// Unsigned 32-bit values need the wider signed type.
		return "bigint"
	case field.TypeUint64:
		return "numeric(20,0)"
	case field.TypeFloat32:
		return "real"
	case field.TypeFloat64:
		if t.Precision > 0 {
			return fmt.Sprintf("numeric(%d,%d)", t.Precision, t.Scale)
		}
		return "double precision"
	case field.TypeString:
		size := t.Size
		if size == 0 {
			size = 255
		}
		switch {
		case t.Fixed && size <= maxVarchar:
			return fmt.Sprintf("char(%d)", size)
		case size <= maxVarchar:
			return fmt.Sprintf("varchar(%d)", size)
		default:
			return "text"
		}
	case field.TypeText:
		return "text"
	case field.TypeBytes:
		return "bytea"
	case field.TypeUUID:
		return "uuid"
	case field.TypeJSON:
		return "jsonb"
	case field.TypeEnum:
		// Enum columns stay portable as bounded strings.
		return "varchar"
	case field.TypeTime:
		// Precision zero keeps the server default of full precision.
		if fsp := clampFsp(t.Precision); fsp > 0 {
			return fmt.Sprintf("timestamptz(%d)", fsp)
		}
		return "timestamptz"
	default:
		return "text"
	}
}

// clampFsp clamps the fractional-seconds precision to the supported [0,6].
func clampFsp(fsp int) int {
	if fsp < 0 {
		return 0
	}
	if fsp > 6 {
		return 6
	}
	return fsp
}

// Literal renders a Go value as a PostgreSQL literal for inline embedding.
func (d *Dialect) Literal(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case []byte:
		return `'\x` + hex.EncodeToString(v) + "'"
	case time.Time:
		return "'" + v.Format(timeLayout) + "'"
	case uuid.UUID:
		return "'" + v.String() + "'"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%v", v)
	default:
		return "'" + strings.ReplaceAll(fmt.Sprint(v), "'", "''") + "'"
	}
}

// Bind transforms a Go value into the form lib/pq binds. Structured
// values serialize to JSON, UUIDs to their textual form.
func (d *Dialect) Bind(v any) any {
	switch v := v.(type) {
	case uuid.UUID:
		return v.String()
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return v
		}
		return data
	default:
		return v
	}
}
