package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	pkgerrors "github.com/yungbote/peptide-insights-backend/internal/pkg/errors"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique-constraint failure from
// Postgres or from a dialect that gorm translates to ErrDuplicatedKey.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// MapError converts gorm and driver errors into package sentinels. Unknown
// failures become ErrStoreUnavailable.
func MapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, pkgerrors.ErrNotFound)
	case IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, pkgerrors.ErrConflict)
	case errors.Is(err, pkgerrors.ErrNotFound),
		errors.Is(err, pkgerrors.ErrConflict),
		errors.Is(err, pkgerrors.ErrInvalidArgument),
		errors.Is(err, pkgerrors.ErrForbidden),
		errors.Is(err, pkgerrors.ErrStoreUnavailable):
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, pkgerrors.ErrStoreUnavailable, err)
}
