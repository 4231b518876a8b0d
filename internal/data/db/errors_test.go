package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	pkgerrors "github.com/yungbote/peptide-insights-backend/internal/pkg/errors"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"record not found", gorm.ErrRecordNotFound, pkgerrors.ErrNotFound},
		{"gorm duplicate", gorm.ErrDuplicatedKey, pkgerrors.ErrConflict},
		{"pg unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), pkgerrors.ErrConflict},
		{"other pg error", &pgconn.PgError{Code: "42P01"}, pkgerrors.ErrStoreUnavailable},
		{"connection refused", errors.New("dial tcp: connection refused"), pkgerrors.ErrStoreUnavailable},
		{"already mapped", fmt.Errorf("x: %w", pkgerrors.ErrForbidden), pkgerrors.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError("op", tc.err)
			assert.ErrorIs(t, got, tc.want)
		})
	}
	assert.NoError(t, MapError("op", nil))
}

func TestMapErrorKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	got := MapError("load experiences", cause)
	assert.ErrorIs(t, got, cause)
	assert.Contains(t, got.Error(), "load experiences")
}

func TestPostgresConfigDSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "peptides"}
	assert.Equal(t, "postgres://u:p@db:5432/peptides?sslmode=disable", cfg.DSN())
	cfg.SSLMode = "require"
	assert.Equal(t, "postgres://u:p@db:5432/peptides?sslmode=require", cfg.DSN())
}
