package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stockroom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes that mean the operation lost a race with a
// concurrent writer and may be retried as a whole.
const (
	pgCodeLockNotAvailable = "55P03"
	pgCodeDeadlockDetected = "40P01"
	pgCodeSerializationErr = "40001"
	pgCodeUniqueViolation  = "23505"
)

// translateLockError maps lock-wait and serialization failures onto the
// domain's retryable Conflict error. Anything else passes through unchanged.
func translateLockError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeLockNotAvailable, pgCodeDeadlockDetected, pgCodeSerializationErr:
			return shared.ErrConflict
		}
	}
	return err
}

// translateWriteError maps uniqueness violations (duplicate business codes)
// onto the domain's retryable Conflict error.
func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrConflict
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgCodeUniqueViolation {
		return shared.ErrConflict
	}
	return err
}
