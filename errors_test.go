package dialect_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dialect"
)

func TestUniqueConstraintError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := dialect.NewUniqueConstraintError("users_email_key", "users", map[string]string{"email": "a@b.c"}, nil)
		assert.Equal(t, `dialect: unique constraint "users_email_key" violated: email="a@b.c"`, err.Error())
	})

	t.Run("NoFields", func(t *testing.T) {
		err := dialect.NewUniqueConstraintError("users_email_key", "users", nil, nil)
		assert.Equal(t, `dialect: unique constraint "users_email_key" violated`, err.Error())
	})

	t.Run("Label", func(t *testing.T) {
		err := dialect.NewUniqueConstraintError("k", "user_accounts", nil, nil)
		assert.Equal(t, "user_account", err.Label)
	})

	t.Run("Unwrap", func(t *testing.T) {
		native := errors.New("duplicate entry")
		err := dialect.NewUniqueConstraintError("k", "users", nil, native)
		assert.True(t, errors.Is(err, native))
	})

	t.Run("IsUniqueConstraint", func(t *testing.T) {
		err := dialect.NewUniqueConstraintError("k", "users", nil, nil)
		assert.True(t, dialect.IsUniqueConstraint(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, dialect.IsUniqueConstraint(wrapped))

		// Non-matching error
		assert.False(t, dialect.IsUniqueConstraint(errors.New("other error")))
		assert.False(t, dialect.IsUniqueConstraint(nil))
	})
}

func TestForeignKeyConstraintError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := dialect.NewForeignKeyConstraintError("fk_posts_author", "posts", nil)
		assert.Equal(t, `dialect: foreign key constraint "fk_posts_author" violated`, err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		native := errors.New("fk violated")
		err := dialect.NewForeignKeyConstraintError("fk", "posts", native)
		assert.True(t, errors.Is(err, native))
	})

	t.Run("IsForeignKeyConstraint", func(t *testing.T) {
		err := dialect.NewForeignKeyConstraintError("fk", "posts", nil)
		assert.True(t, dialect.IsForeignKeyConstraint(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, dialect.IsForeignKeyConstraint(wrapped))

		assert.False(t, dialect.IsForeignKeyConstraint(errors.New("other error")))
		assert.False(t, dialect.IsForeignKeyConstraint(nil))
	})
}

func TestUnknownConstraintError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := dialect.NewUnknownConstraintError("idx_users_email", nil)
		assert.Equal(t, `dialect: unknown constraint "idx_users_email"`, err.Error())

		err = dialect.NewUnknownConstraintError("", nil)
		assert.Equal(t, "dialect: unknown constraint", err.Error())
	})

	t.Run("IsUnknownConstraint", func(t *testing.T) {
		err := dialect.NewUnknownConstraintError("idx", nil)
		assert.True(t, dialect.IsUnknownConstraint(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, dialect.IsUnknownConstraint(wrapped))

		assert.False(t, dialect.IsUnknownConstraint(errors.New("other error")))
		assert.False(t, dialect.IsUnknownConstraint(nil))
	})
}

func TestIsConstraint(t *testing.T) {
	assert.True(t, dialect.IsConstraint(dialect.NewUniqueConstraintError("k", "t", nil, nil)))
	assert.True(t, dialect.IsConstraint(dialect.NewForeignKeyConstraintError("fk", "t", nil)))
	assert.True(t, dialect.IsConstraint(dialect.NewUnknownConstraintError("idx", nil)))
	assert.False(t, dialect.IsConstraint(dialect.NewConnectionError(errors.New("down"))))
	assert.False(t, dialect.IsConstraint(nil))
}

func TestConnectionErrors(t *testing.T) {
	t.Run("Refused", func(t *testing.T) {
		native := errors.New("access denied")
		err := dialect.NewConnectionRefusedError(native)
		assert.Equal(t, "dialect: connection refused: access denied", err.Error())
		assert.True(t, errors.Is(err, native))
		assert.True(t, dialect.IsConnectionRefused(err))

		// A refusal is also a connection-level failure.
		assert.True(t, dialect.IsConnection(err))
	})

	t.Run("Connection", func(t *testing.T) {
		native := errors.New("broken pipe")
		err := dialect.NewConnectionError(native)
		assert.Equal(t, "dialect: connection error: broken pipe", err.Error())
		assert.True(t, errors.Is(err, native))
		assert.True(t, dialect.IsConnection(err))

		// But a plain connection error is not a refusal.
		assert.False(t, dialect.IsConnectionRefused(err))
	})

	t.Run("NonMatching", func(t *testing.T) {
		assert.False(t, dialect.IsConnection(errors.New("other error")))
		assert.False(t, dialect.IsConnection(nil))
		assert.False(t, dialect.IsConnectionRefused(nil))
	})
}

func TestDatabaseError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		native := errors.New("syntax error near SELECT")
		err := dialect.NewDatabaseError(dialect.MySQL, native)
		assert.Equal(t, "dialect: mysql: syntax error near SELECT", err.Error())
		assert.True(t, errors.Is(err, native))
	})

	t.Run("IsDatabase", func(t *testing.T) {
		err := dialect.NewDatabaseError(dialect.Postgres, errors.New("boom"))
		assert.True(t, dialect.IsDatabase(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, dialect.IsDatabase(wrapped))

		assert.False(t, dialect.IsDatabase(errors.New("other error")))
		assert.False(t, dialect.IsDatabase(nil))
	})
}

func TestConstraintLabel(t *testing.T) {
	tests := []struct {
		table string
		want  string
	}{
		{"users", "user"},
		{"user_accounts", "user_account"},
		{"categories", "category"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dialect.ConstraintLabel(tt.table), "table %q", tt.table)
	}
}

func TestErrClosed(t *testing.T) {
	require.Error(t, dialect.ErrClosed)
	assert.Contains(t, dialect.ErrClosed.Error(), "closed")
	assert.True(t, errors.Is(dialect.NewConnectionError(dialect.ErrClosed), dialect.ErrClosed))
}
