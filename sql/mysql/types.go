package mysql

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/dialect"
	"github.com/syssam/dialect/field"
)

// MySQL string/blob storage tiers.
const (
	maxChar       = 255        // CHAR(n) upper bound.
	maxVarchar    = 1<<16 - 1  // VARCHAR upper bound (row-size permitting).
	maxMediumText = 1<<24 - 1
)

// Time format used for literal embedding; fixed-width, locale independent.
const timeLayout = "2006-01-02 15:04:05.999999"

// ColumnType maps a column descriptor to the MySQL SQL type string.
// Length-dependent selection follows the server storage tiers: bounded
// strings become VARCHAR, anything longer falls into the TEXT tiers.
// ColumnType never fails; it degrades unsupported combinations instead.
func (d *Dialect) ColumnType(t *field.Descriptor) string {
	if s, ok := t.SchemaTyp[dialect.MySQL]; ok {
		return s
	}
	switch t.Type {
	case field.TypeBool:
		return "boolean"
	case field.TypeInt:
		return intType("int", t)
	case field.TypeInt64:
		return intType("bigint", t)
	case field.TypeUint:
		return intType("int", t)
	case field.TypeUint64:
		return intType("bigint", t)
	case field.TypeFloat32:
		return "float"
	case field.TypeFloat64:
		if t.Precision > 0 {
			return fmt.Sprintf("decimal(%d,%d)", t.Precision, t.Scale)
		}
		return "double"
	case field.TypeString:
		size := t.Size
		if size == 0 {
			size = 255
		}
		switch {
		case t.Fixed && size <= maxChar:
			return fmt.Sprintf("char(%d)", size)
		case size <= maxVarchar:
			return fmt.Sprintf("varchar(%d)", size)
		default:
			return textType(size)
		}
	case field.TypeText:
		return textType(t.Size)
	case field.TypeBytes:
		size := t.Size
		switch {
		case t.Fixed && size > 0 && size <= maxChar:
			return fmt.Sprintf("binary(%d)", size)
		case size > 0 && size <= maxVarchar:
			return fmt.Sprintf("varbinary(%d)", size)
		case size > maxVarchar && size <= maxMediumText:
			return "mediumblob"
		case size > maxMediumText:
			return "longblob"
		default:
			return "blob"
		}
	case field.TypeUUID:
		return "char(36)"
	case field.TypeJSON:
		return "json"
	case field.TypeEnum:
		values := make([]string, len(t.Values))
		for i, v := range t.Values {
			values[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
		}
		return fmt.Sprintf("enum(%s)", strings.Join(values, ", "))
	case field.TypeTime:
		if fsp := clampFsp(t.Precision); fsp > 0 {
			return fmt.Sprintf("datetime(%d)", fsp)
		}
		return "datetime"
	default:
		return "longtext"
	}
}

// intType renders an integer type with the MySQL display modifiers.
func intType(base string, t *field.Descriptor) string {
	if t.Unsigned {
		base += " unsigned"
	}
	if t.ZeroFill {
		base += " zerofill"
	}
	return base
}

// textType selects the TEXT storage tier for the given length.
func textType(size int) string {
	switch {
	case size == 0:
		return "longtext"
	case size <= maxChar:
		return "tinytext"
	case size <= maxVarchar:
		return "text"
	case size <= maxMediumText:
		return "mediumtext"
	default:
		return "longtext"
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

// Literal renders a Go value as a MySQL literal for inline embedding.
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
		return "'" + escapeString(v) + "'"
	case []byte:
		return "x'" + hex.EncodeToString(v) + "'"
	case time.Time:
		return "'" + v.Format(timeLayout) + "'"
	case uuid.UUID:
		return "'" + v.String() + "'"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%v", v)
	default:
		return "'" + escapeString(fmt.Sprint(v)) + "'"
	}
}

// Bind transforms a Go value into the form the native driver binds.
// Structured values are serialized; scalar types the driver understands
// pass through.
func (d *Dialect) Bind(v any) any {
	switch v := v.(type) {
	case uuid.UUID:
		return v.String()
	case time.Time:
		return v.Format(timeLayout)
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

// escapeString doubles single quotes and escapes backslashes, MySQL style.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", "''")
}
