package database

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://bot:secret@db:5432/prostava?sslmode=disable", "pgx5://bot:secret@db:5432/prostava?sslmode=disable"},
		{"postgresql://db/prostava", "pgx5://db/prostava"},
		{"pgx5://db/prostava", "pgx5://db/prostava"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, migrateURL(tt.dsn))
	}
}

func TestIsPendingAuthorConflict(t *testing.T) {
	assert.True(t, isPendingAuthorConflict(&pgconn.PgError{Code: "23505", ConstraintName: pendingAuthorIndex}))
	assert.False(t, isPendingAuthorConflict(&pgconn.PgError{Code: "23505", ConstraintName: "records_pkey"}))
	assert.False(t, isPendingAuthorConflict(nil))
}
