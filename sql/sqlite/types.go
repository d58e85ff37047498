package sqlite

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

// Time format used for stored timestamps; fixed-width, locale independent.
const timeLayout = "2006-01-02 15:04:05.999999"

// ColumnType maps a column descriptor to a SQLite type name. SQLite
// collapses declared types into five affinities, so lengths and most
// modifiers carry no storage meaning; representation options without an
// equivalent are cleared with a warning.
func (d *Dialect) ColumnType(t *field.Descriptor) string {
	if s, ok := t.SchemaTyp[dialect.SQLite]; ok {
		return s
	}
	if t.Type.Integer() && (t.Unsigned || t.ZeroFill) {
		slog.Warn("column options unsupported by dialect were dropped",
			"dialect", dialect.SQLite, "column", t.Name,
			"unsigned", t.Unsigned, "zerofill", t.ZeroFill)
	}
	switch t.Type {
	case field.TypeBool:
		return "boolean"
	case field.TypeInt, field.TypeInt64, field.TypeUint, field.TypeUint64:
		return "integer"
	case field.TypeFloat32, field.TypeFloat64:
		if t.Precision > 0 {
			return fmt.Sprintf("decimal(%d,%d)", t.Precision, t.Scale)
		}
		return "real"
	case field.TypeString, field.TypeText, field.TypeEnum:
		return "text"
	case field.TypeBytes:
		return "blob"
	case field.TypeUUID:
		return "uuid"
	case field.TypeJSON:
		return "json"
	case field.TypeTime:
		return "datetime"
	default:
		return "text"
	}
}

// Literal renders a Go value as a SQLite literal for inline embedding.
func (d *Dialect) Literal(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return "1"
		}
		return "0"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case []byte:
		return "x'" + hex.EncodeToString(v) + "'"
	case time.Time:
		return "'" + v.UTC().Format(timeLayout) + "'"
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

// Bind transforms a Go value into the form the native driver binds.
// Timestamps are stored in their textual fixed-width form.
func (d *Dialect) Bind(v any) any {
	switch v := v.(type) {
	case uuid.UUID:
		return v.String()
	case time.Time:
		return v.UTC().Format(timeLayout)
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return v
		}
		return string(data)
	default:
		return v
	}
}
