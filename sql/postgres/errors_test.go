package postgres_test

import (
	"database/sql/driver"
	"errors"
	"net"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dialect"
	"github.com/syssam/dialect/sql/postgres"
)

func TestErrorCode(t *testing.T) {
	d := postgres.New()
	assert.Equal(t, "23505", d.ErrorCode(&pq.Error{Code: "23505"}))
	assert.Equal(t, "", d.ErrorCode(errors.New("no code")))
	assert.Equal(t, "", d.ErrorCode(nil))
}

func TestTranslate(t *testing.T) {
	d := postgres.New()

	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, d.Translate(nil))
	})

	t.Run("UniqueViolation", func(t *testing.T) {
		native := &pq.Error{
			Code:       "23505",
			Constraint: "users_email_key",
			Table:      "users",
			Detail:     "Key (email)=(jane@acme.io) already exists.",
		}
		err := d.Translate(native)
		require.True(t, dialect.IsUniqueConstraint(err))

		var uerr *dialect.UniqueConstraintError
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, "users_email_key", uerr.Constraint)
		assert.Equal(t, "user", uerr.Label)
		assert.Equal(t, map[string]string{"email": "jane@acme.io"}, uerr.Fields)
		assert.True(t, errors.Is(err, native))
	})

	t.Run("UniqueViolationCompositeKey", func(t *testing.T) {
		err := d.Translate(&pq.Error{
			Code:   "23505",
			Detail: "Key (org_id, email)=(7, jane@acme.io) already exists.",
		})
		var uerr *dialect.UniqueConstraintError
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, map[string]string{"org_id": "7", "email": "jane@acme.io"}, uerr.Fields)
	})

	t.Run("UniqueViolationNoDetail", func(t *testing.T) {
		err := d.Translate(&pq.Error{Code: "23505", Constraint: "users_email_key"})
		var uerr *dialect.UniqueConstraintError
		require.ErrorAs(t, err, &uerr)
		assert.Nil(t, uerr.Fields)
	})

	t.Run("ForeignKeyViolation", func(t *testing.T) {
		err := d.Translate(&pq.Error{
			Code:       "23503",
			Constraint: "pets_owner_id_fkey",
			Table:      "pets",
		})
		require.True(t, dialect.IsForeignKeyConstraint(err))

		var ferr *dialect.ForeignKeyConstraintError
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, "pets_owner_id_fkey", ferr.Constraint)
		assert.Equal(t, "pet", ferr.Label)
	})

	t.Run("UndefinedObject", func(t *testing.T) {
		err := d.Translate(&pq.Error{Code: "42704", Constraint: "ghost_key"})
		require.True(t, dialect.IsUnknownConstraint(err))
	})

	t.Run("AuthFailures", func(t *testing.T) {
		for _, code := range []pq.ErrorCode{"28000", "28P01"} {
			err := d.Translate(&pq.Error{Code: code})
			assert.True(t, dialect.IsConnectionRefused(err), "code %s", code)
		}
	})

	t.Run("ConnectionClass", func(t *testing.T) {
		// SQLSTATE class 08 is the connection exception family.
		err := d.Translate(&pq.Error{Code: "08006"})
		assert.True(t, dialect.IsConnection(err))
		assert.False(t, dialect.IsConnectionRefused(err))
	})

	t.Run("ConnectionFailures", func(t *testing.T) {
		assert.True(t, dialect.IsConnection(d.Translate(driver.ErrBadConn)))
		assert.True(t, dialect.IsConnection(d.Translate(dialect.ErrClosed)))
		assert.True(t, dialect.IsConnection(d.Translate(&net.OpError{Op: "dial", Err: errors.New("timeout")})))
		assert.True(t, dialect.IsConnection(d.Translate(errors.New("pq: unexpected EOF"))))
	})

	t.Run("DefaultsToDatabaseError", func(t *testing.T) {
		err := d.Translate(&pq.Error{Code: "42601", Message: "syntax error"})
		assert.True(t, dialect.IsDatabase(err))

		err = d.Translate(errors.New("something else entirely"))
		assert.True(t, dialect.IsDatabase(err))
	})

	t.Run("CanonicalPassthrough", func(t *testing.T) {
		canonical := dialect.NewDatabaseError(dialect.Postgres, errors.New("x"))
		assert.Same(t, error(canonical), d.Translate(canonical))
	})
}
