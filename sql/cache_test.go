package sql_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dialect/sql"
)

// memCache is a minimal in-memory Cache for tests.
type memCache struct {
	data map[string][]byte
	gets int
	sets int
	err  error
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.gets++
	if c.err != nil {
		return nil, c.err
	}
	return c.data[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.sets++
	if c.err != nil {
		return c.err
	}
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func TestResultCodec(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		in := &sql.Result{
			Kind:    sql.KindSelect,
			Columns: []sql.Column{{Name: "id", DatabaseType: "BIGINT"}, {Name: "name", DatabaseType: "VARCHAR"}},
			Rows: []map[string]any{
				{"id": int64(1), "name": "jane"},
				{"id": int64(2), "name": "joe"},
			},
			RowsAffected: 2,
		}
		data, err := sql.EncodeResult(in)
		require.NoError(t, err)

		out, err := sql.DecodeResult(data)
		require.NoError(t, err)
		assert.Equal(t, in.Kind, out.Kind)
		assert.Equal(t, in.Columns, out.Columns)
		assert.Equal(t, in.RowsAffected, out.RowsAffected)
		require.Equal(t, 2, out.Len())
		assert.Equal(t, int64(1), out.Rows[0]["id"])
		assert.Equal(t, "jane", out.Rows[0]["name"])
	})

	t.Run("NilResult", func(t *testing.T) {
		_, err := sql.EncodeResult(nil)
		assert.Error(t, err)
	})

	t.Run("CorruptData", func(t *testing.T) {
		_, err := sql.DecodeResult([]byte("not msgpack at all"))
		assert.Error(t, err)
	})
}

func TestCachedExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("MissThenHit", func(t *testing.T) {
		drv, mock := mockDriver(t)
		cache := newMemCache()

		// The database is hit exactly once; the second call is served
		// from the cache.
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

		res, err := sql.CachedExecute(ctx, drv, cache, time.Minute, "SELECT id FROM users")
		require.NoError(t, err)
		require.Equal(t, 1, res.Len())
		require.Equal(t, 1, cache.sets)

		res, err = sql.CachedExecute(ctx, drv, cache, time.Minute, "SELECT id FROM users")
		require.NoError(t, err)
		require.Equal(t, 1, res.Len())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NonSelectBypasses", func(t *testing.T) {
		drv, mock := mockDriver(t)
		cache := newMemCache()

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users")).
			WillReturnResult(sqlmock.NewResult(0, 2))

		res, err := sql.CachedExecute(ctx, drv, cache, time.Minute, "DELETE FROM users")
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.RowsAffected)
		assert.Zero(t, cache.gets)
		assert.Zero(t, cache.sets)
	})

	t.Run("CacheFailureDegrades", func(t *testing.T) {
		drv, mock := mockDriver(t)
		cache := newMemCache()
		cache.err = errors.New("cache down")

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

		res, err := sql.CachedExecute(ctx, drv, cache, time.Minute, "SELECT id FROM users")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Len())
	})

	t.Run("CorruptEntryDropped", func(t *testing.T) {
		drv, mock := mockDriver(t)
		cache := newMemCache()
		key := sql.CacheKey{Dialect: drv.Dialect(), Query: "SELECT id FROM users", Args: nil}.String()
		cache.data[key] = []byte("garbage")

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

		res, err := sql.CachedExecute(ctx, drv, cache, time.Minute, "SELECT id FROM users")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Len())

		// The corrupt entry was replaced by the fresh snapshot.
		decoded, err := sql.DecodeResult(cache.data[key])
		require.NoError(t, err)
		assert.Equal(t, 1, decoded.Len())
	})
}

func TestCacheKeyString(t *testing.T) {
	k := sql.CacheKey{Dialect: "mysql", Query: "SELECT 1", Args: []any{1, "a"}}
	assert.Equal(t, "mysql:SELECT 1:[1 a]", k.String())
}
