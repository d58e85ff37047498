package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dialect"
	"github.com/syssam/dialect/sql/postgres"
)

func TestDialect(t *testing.T) {
	d := postgres.New()
	assert.Equal(t, dialect.Postgres, d.Name())
	assert.Equal(t, "postgres", d.DriverName())
	assert.Equal(t, "SELECT version()", d.VersionQuery())
	assert.NotNil(t, d.Parsers())
	assert.NotNil(t, d.Rules())
}

func TestDSN(t *testing.T) {
	d := postgres.New()

	t.Run("Basic", func(t *testing.T) {
		dsn, err := d.DSN(&dialect.Config{
			Host:     "db.local",
			Port:     5433,
			Database: "app",
			User:     "svc",
			Password: "secret",
		})
		require.NoError(t, err)
		assert.Equal(t, "dbname=app host=db.local password=secret port=5433 sslmode=disable user=svc", dsn)
	})

	t.Run("Defaults", func(t *testing.T) {
		dsn, err := d.DSN(&dialect.Config{Database: "app"})
		require.NoError(t, err)
		assert.Contains(t, dsn, "host=localhost")
		assert.Contains(t, dsn, "port=5432")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("TLS", func(t *testing.T) {
		dsn, err := d.DSN(&dialect.Config{
			Database: "app",
			TLS:      &dialect.TLSConfig{Enabled: true},
		})
		require.NoError(t, err)
		assert.Contains(t, dsn, "sslmode=verify-full")

		dsn, err = d.DSN(&dialect.Config{
			Database: "app",
			TLS:      &dialect.TLSConfig{Enabled: true, SkipVerify: true},
		})
		require.NoError(t, err)
		assert.Contains(t, dsn, "sslmode=require")
	})

	t.Run("OptionOverridesSSLMode", func(t *testing.T) {
		dsn, err := d.DSN(&dialect.Config{
			Database: "app",
			Options:  map[string]string{"sslmode": "prefer"},
		})
		require.NoError(t, err)
		assert.Contains(t, dsn, "sslmode=prefer")
	})

	t.Run("QuotedValues", func(t *testing.T) {
		dsn, err := d.DSN(&dialect.Config{
			Database: "app",
			Password: "p ss'word",
		})
		require.NoError(t, err)
		assert.Contains(t, dsn, `password='p ss\'word'`)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := d.DSN(&dialect.Config{Host: "db.local"})
		assert.Error(t, err)
	})
}

func TestDefaultRules(t *testing.T) {
	d := postgres.New()
	assert.True(t, d.Rules().Match("drop", "42P01", `table "users" does not exist`))
	assert.True(t, d.Rules().Match("drop", "", `index "users_email_idx" does not exist`))
	assert.False(t, d.Rules().Match("select", "42703", `column "ghost" does not exist`))
}
