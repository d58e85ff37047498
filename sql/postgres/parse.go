package postgres

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/dialect"
)

// defaultParsers is the registry seed: native column type name to parse
// function.
func defaultParsers() map[string]dialect.ParseFunc {
	return map[string]dialect.ParseFunc{
		"BOOL":        ParseBool,
		"UUID":        ParseUUID,
		"NUMERIC":     parseNumeric,
		"JSON":        parseJSON,
		"JSONB":       parseJSON,
		"TIMESTAMP":   parseTimestamp,
		"TIMESTAMPTZ": parseTimestamp,
	}
}

// ParseBool normalizes the driver forms of a boolean column: native bool,
// numeric 0/1, the strings "true"/"false"/"t"/"f"/"0"/"1", or a
// single-byte buffer.
func ParseBool(v any) (any, error) {
	switch v := v.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case string:
		switch strings.ToLower(v) {
		case "true", "t", "1":
			return true, nil
		case "false", "f", "0":
			return false, nil
		}
		return nil, fmt.Errorf("postgres: cannot parse %q as bool", v)
	case []byte:
		if len(v) == 1 && (v[0] == 0 || v[0] == 1) {
			return v[0] == 1, nil
		}
		return ParseBool(string(v))
	default:
		return nil, fmt.Errorf("postgres: cannot parse %T as bool", v)
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
			return nil, fmt.Errorf("postgres: parse uuid: %w", err)
		}
		return id, nil
	case []byte:
		if len(v) == 16 {
			id, err := uuid.FromBytes(v)
			if err != nil {
				return nil, fmt.Errorf("postgres: parse uuid: %w", err)
			}
			return id, nil
		}
		return ParseUUID(string(v))
	default:
		return nil, fmt.Errorf("postgres: cannot parse %T as uuid", v)
	}
}

// parseNumeric keeps exact decimals textual; the column was declared with
// a precision a float cannot be trusted to keep.
func parseNumeric(v any) (any, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return v, nil
}

func parseJSON(v any) (any, error) {
	var data []byte
	switch v := v.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return nil, fmt.Errorf("postgres: cannot parse %T as json", v)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("postgres: parse json: %w", err)
	}
	return out, nil
}

// parseTimestamp tolerates both the native time.Time lib/pq produces and
// the textual forms other sources hand back.
func parseTimestamp(v any) (any, error) {
	switch v := v.(type) {
	case time.Time:
		return v, nil
	case string:
		return parseTimestampString(v)
	case []byte:
		return parseTimestampString(string(v))
	default:
		return nil, fmt.Errorf("postgres: cannot parse %T as timestamp", v)
	}
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05.999999-07:00",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

func parseTimestampString(s string) (any, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("postgres: cannot parse %q as timestamp", s)
}
