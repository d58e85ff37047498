package mysql_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dialect/sql/mysql"
)

func TestParseBool(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"True", true, true},
		{"Int64One", int64(1), true},
		{"Int64Zero", int64(0), false},
		{"Uint64", uint64(1), true},
		{"Float64", float64(1), true},
		{"StringTrue", "true", true},
		{"StringZero", "0", false},
		{"BitBuffer", []byte{1}, true},
		{"BitBufferZero", []byte{0}, false},
		{"TextBuffer", []byte("true"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mysql.ParseBool(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("Invalid", func(t *testing.T) {
		_, err := mysql.ParseBool("maybe")
		assert.Error(t, err)
		_, err = mysql.ParseBool(struct{}{})
		assert.Error(t, err)
	})
}

func TestParseUUID(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	got, err := mysql.ParseUUID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = mysql.ParseUUID(id[:])
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = mysql.ParseUUID([]byte(id.String()))
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = mysql.ParseUUID(id)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = mysql.ParseUUID("not-a-uuid")
	assert.Error(t, err)
	_, err = mysql.ParseUUID(42)
	assert.Error(t, err)
}

func TestDefaultParsersViaRegistry(t *testing.T) {
	d := mysql.New()
	reg := d.Parsers()

	t.Run("Datetime", func(t *testing.T) {
		v, err := reg.Parse("DATETIME", []byte("2024-03-07 12:30:45.123456"))
		require.NoError(t, err)
		ts, ok := v.(time.Time)
		require.True(t, ok)
		assert.Equal(t, 2024, ts.Year())
		assert.Equal(t, 123456000, ts.Nanosecond())
	})

	t.Run("TimestampAlreadyTime", func(t *testing.T) {
		now := time.Now()
		v, err := reg.Parse("TIMESTAMP", now)
		require.NoError(t, err)
		assert.Equal(t, now, v)
	})

	t.Run("Date", func(t *testing.T) {
		v, err := reg.Parse("DATE", "2024-03-07")
		require.NoError(t, err)
		ts, ok := v.(time.Time)
		require.True(t, ok)
		assert.Equal(t, time.March, ts.Month())
	})

	t.Run("DecimalStaysTextual", func(t *testing.T) {
		v, err := reg.Parse("DECIMAL", []byte("12345.67"))
		require.NoError(t, err)
		assert.Equal(t, "12345.67", v)
	})

	t.Run("JSON", func(t *testing.T) {
		v, err := reg.Parse("JSON", []byte(`{"a": 1}`))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": float64(1)}, v)
	})

	t.Run("Bit", func(t *testing.T) {
		v, err := reg.Parse("BIT", []byte{1})
		require.NoError(t, err)
		assert.Equal(t, true, v)
	})

	t.Run("UnknownTypePassthrough", func(t *testing.T) {
		v, err := reg.Parse("BIGINT", int64(7))
		require.NoError(t, err)
		assert.Equal(t, int64(7), v)
	})
}

func TestCustomParserOption(t *testing.T) {
	d := mysql.New(mysql.WithParser("POINT", func(v any) (any, error) {
		return "parsed-point", nil
	}))
	v, err := d.Parsers().Parse("POINT", []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, "parsed-point", v)
}
