package mysql

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/dialect"
)

// defaultParsers is the registry seed: native column type name to parse
// function. The registry is per dialect instance and replaceable via
// Refresh.
func defaultParsers() map[string]dialect.ParseFunc {
	return map[string]dialect.ParseFunc{
		"BIT":       ParseBool,
		"DATETIME":  parseDateTime,
		"TIMESTAMP": parseDateTime,
		"DATE":      parseDate,
		"DECIMAL":   parseDecimal,
		"NUMERIC":   parseDecimal,
		"JSON":      parseJSON,
	}
}

// ParseBool normalizes the driver forms of a boolean column: numeric 0/1,
// the strings "true"/"false"/"0"/"1", or a single-byte buffer as returned
// for BIT(1).
func ParseBool(v any) (any, error) {
	switch v := v.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case uint64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case string:
		switch strings.ToLower(v) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return nil, fmt.Errorf("mysql: cannot parse %q as bool", v)
	case []byte:
		if len(v) == 1 {
			return v[0] != 0, nil
		}
		return ParseBool(string(v))
	default:
		return nil, fmt.Errorf("mysql: cannot parse %T as bool", v)
	}
}

// ParseUUID parses the textual and 16-byte binary forms of a UUID column.
func ParseUUID(v any) (any, error) {
	switch v := v.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("mysql: parse uuid: %w", err)
		}
		return id, nil
	case []byte:
		if len(v) == 16 {
			id, err := uuid.FromBytes(v)
			if err != nil {
				return nil, fmt.Errorf("mysql: parse uuid: %w", err)
			}
			return id, nil
		}
		return ParseUUID(string(v))
	default:
		return nil, fmt.Errorf("mysql: cannot parse %T as uuid", v)
	}
}

// Textual date/time layouts are fixed-width and locale independent.
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

func parseDateTime(v any) (any, error) {
	s, ok := asString(v)
	if !ok {
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
		return nil, fmt.Errorf("mysql: cannot parse %T as datetime", v)
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("mysql: cannot parse %q as datetime", s)
}

func parseDate(v any) (any, error) {
	s, ok := asString(v)
	if !ok {
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
		return nil, fmt.Errorf("mysql: cannot parse %T as date", v)
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("mysql: parse date: %w", err)
	}
	return t, nil
}

// parseDecimal keeps exact decimals in their textual form; converting to
// float here would lose the precision the column was declared for.
func parseDecimal(v any) (any, error) {
	if s, ok := asString(v); ok {
		return s, nil
	}
	return v, nil
}

func parseJSON(v any) (any, error) {
	s, ok := asString(v)
	if !ok {
		return nil, fmt.Errorf("mysql: cannot parse %T as json", v)
	}
	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("mysql: parse json: %w", err)
	}
	return out, nil
}

func asString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	}
	return "", false
}
