package sql

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Cache is the interface for caching normalized query results. Users
// implement it with their preferred store (Redis, Memcached, in-memory).
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error
}

// CacheKey identifies one statement execution for caching.
type CacheKey struct {
	Dialect string
	Query   string
	Args    []any
}

// String returns the string representation of the cache key.
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%v", k.Dialect, k.Query, k.Args)
}

// cachedResult is the wire shape of a Result snapshot.
type cachedResult struct {
	Kind         uint8            `msgpack:"k"`
	Columns      []Column         `msgpack:"c"`
	Rows         []map[string]any `msgpack:"r"`
	LastInsertID int64            `msgpack:"id"`
	RowsAffected int64            `msgpack:"n"`
}

// EncodeResult serializes a Result for cache storage.
func EncodeResult(r *Result) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("dialect/sql: encode nil result")
	}
	data, err := msgpack.Marshal(cachedResult{
		Kind:         uint8(r.Kind),
		Columns:      r.Columns,
		Rows:         r.Rows,
		LastInsertID: r.LastInsertID,
		RowsAffected: r.RowsAffected,
	})
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: encode result: %w", err)
	}
	return data, nil
}

// DecodeResult deserializes a Result from cache storage.
func DecodeResult(data []byte) (*Result, error) {
	var c cachedResult
	if err := msgpack.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("dialect/sql: decode result: %w", err)
	}
	return &Result{
		Kind:         Kind(c.Kind),
		Columns:      c.Columns,
		Rows:         c.Rows,
		LastInsertID: c.LastInsertID,
		RowsAffected: c.RowsAffected,
	}, nil
}

// CachedExecute runs a row-returning statement through the cache: a hit is
// decoded and returned without touching the database, a miss executes and
// stores the snapshot. Non-select statements bypass the cache entirely.
// Cache failures degrade to a plain execution.
func CachedExecute(ctx context.Context, d *Driver, c Cache, ttl time.Duration, query string, args ...any) (*Result, error) {
	if !Classify(query).ReturnsRows() {
		return d.Execute(ctx, query, args...)
	}
	key := CacheKey{Dialect: d.Dialect(), Query: query, Args: args}.String()
	if data, err := c.Get(ctx, key); err != nil {
		slog.Warn("result cache get failed", "error", err)
	} else if data != nil {
		if res, err := DecodeResult(data); err == nil {
			return res, nil
		}
		// Corrupt entry: drop it and fall through to the database.
		_ = c.Delete(ctx, key)
	}
	res, err := d.Execute(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if data, err := EncodeResult(res); err == nil {
		if err := c.Set(ctx, key, data, ttl); err != nil {
			slog.Warn("result cache set failed", "error", err)
		}
	}
	return res, nil
}
