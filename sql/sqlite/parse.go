package sqlite

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/dialect"
)

// defaultParsers is the registry seed. SQLite stores everything through its
// affinity system, so most declared types arrive as INTEGER or TEXT and
// need normalization on the way out.
func defaultParsers() map[string]dialect.ParseFunc {
	return map[string]dialect.ParseFunc{
		"BOOLEAN":  ParseBool,
		"DATETIME": parseDateTime,
		"DATE":     parseDate,
		"UUID":     ParseUUID,
		"JSON":     parseJSON,
	}
}

// ParseBool normalizes a boolean column: SQLite has no boolean storage
// class, so values arrive as integers or text.
func ParseBool(v any) (any, error) {
	switch v := v.(type) {
	case bool:
		return v, nil
	case int64:
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
		return nil, fmt.Errorf("sqlite: cannot parse %q as bool", v)
	case []byte:
		return ParseBool(string(v))
	default:
		return nil, fmt.Errorf("sqlite: cannot parse %T as bool", v)
	}
}

// ParseUUID parses the textual form of a UUID column.
func ParseUUID(v any) (any, error) {
	switch v := v.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parse uuid: %w", err)
		}
		return id, nil
	case []byte:
		if len(v) == 16 {
			id, err := uuid.FromBytes(v)
			if err != nil {
				return nil, fmt.Errorf("sqlite: parse uuid: %w", err)
			}
			return id, nil
		}
		return ParseUUID(string(v))
	default:
		return nil, fmt.Errorf("sqlite: cannot parse %T as uuid", v)
	}
}

var dateTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

func parseDateTime(v any) (any, error) {
	s, ok := asString(v)
	if !ok {
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
		return nil, fmt.Errorf("sqlite: cannot parse %T as datetime", v)
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("sqlite: cannot parse %q as datetime", s)
}

func parseDate(v any) (any, error) {
	s, ok := asString(v)
	if !ok {
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
		return nil, fmt.Errorf("sqlite: cannot parse %T as date", v)
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("sqlite: parse date: %w", err)
	}
	return t, nil
}

func parseJSON(v any) (any, error) {
	s, ok := asString(v)
	if !ok {
		return nil, fmt.Errorf("sqlite: cannot parse %T as json", v)
	}
	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("sqlite: parse json: %w", err)
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
