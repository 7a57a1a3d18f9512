package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgExclusionViolation   = "23P01"
	pgUniqueViolation      = "23505"
)

// IsRetryableTx reports whether the store aborted a transaction that may
// succeed if run again.
func IsRetryableTx(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
}

// IsExclusionConflict reports a violated exclusion or unique constraint, the
// store's own way of saying two rows collide.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgExclusionViolation || pgErr.Code == pgUniqueViolation
}
