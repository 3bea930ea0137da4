package errors

// Postgres helpers: SQLSTATE classification and wrapping of pgx errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repos care about
const (
	pgErrUniqueViolation           = "23505"
	pgErrForeignKeyViolation       = "23503"
	pgErrNotNullViolation          = "23502"
	pgErrCheckViolation            = "23514"
	pgErrInvalidTextRepresentation = "22P02"
	pgErrInvalidDatetimeFormat     = "22007"

	pgErrSerializationFailure = "40001"
	pgErrDeadlockDetected     = "40P01"
	pgErrLockNotAvailable     = "55P03"
	pgErrQueryCanceled        = "57014"
	pgErrCannotConnectNow     = "57P03"
	pgErrAdminShutdown        = "57P01"
)

// ExtractPgError returns (*pgconn.PgError, true) if the root cause is a PgError
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(Root(err), &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether the error is a Postgres error with the given SQLSTATE code
func IsSQLState(err error, code string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == code
}

// IsDuplicateKey reports whether the error is a unique constraint violation
func IsDuplicateKey(err error) bool { return IsSQLState(err, pgErrUniqueViolation) }

// DBErrorCode maps a Postgres error to an ErrorCode; !ok means err was not a PgError
func DBErrorCode(err error) (ErrorCode, bool) {
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return ErrorCodeUnknown, false
	}

	switch pgErr.Code {
	case pgErrUniqueViolation:
		return ErrorCodeDuplicateKey, true
	case pgErrForeignKeyViolation, pgErrInvalidTextRepresentation, pgErrInvalidDatetimeFormat:
		return ErrorCodeInvalidArgument, true
	case pgErrNotNullViolation, pgErrCheckViolation:
		return ErrorCodeValidation, true
	case pgErrCannotConnectNow, pgErrAdminShutdown:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps a store error with a mapped code; nil stays nil
// non pg errors (pool closed, ctx cancelled) become ErrorCodeDB
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	if code, ok := DBErrorCode(err); ok {
		return Wrap(err, code, msg)
	}
	return Wrap(err, ErrorCodeDB, msg)
}

// FromPostgresf is the formatted variant of FromPostgres
func FromPostgresf(err error, format string, a ...any) error {
	return FromPostgres(err, fmt.Sprintf(format, a...))
}

// IsRetryable reports whether a database error is transient contention
// local cancellation is never retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}

	root := Root(err)

	var pgErr *pgconn.PgError
	if stderrs.As(root, &pgErr) {
		switch pgErr.Code {
		case pgErrSerializationFailure, pgErrDeadlockDetected, pgErrLockNotAvailable,
			pgErrQueryCanceled, pgErrCannotConnectNow, pgErrAdminShutdown:
			return true
		}
		return false
	}

	s := strings.ToLower(root.Error())
	switch {
	case strings.Contains(s, "commit unexpectedly resulted in rollback"),
		strings.Contains(s, "deadlock detected"),
		strings.Contains(s, "could not serialize access"),
		strings.Contains(s, "terminating connection due to administrator command"):
		return true
	}
	return false
}
