package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Common database error types that can be used by consumers of this package.
// These abstract away the underlying database-specific error details.
var (
	// ErrRecordNotFound is returned when a query doesn't find any matching records
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an insert or update violates a unique constraint
	ErrDuplicateKey = errors.New("duplicate key violation")

	// ErrForeignKey is returned when an operation violates a foreign key constraint
	ErrForeignKey = errors.New("foreign key violation")

	// ErrInvalidData is returned when the data being saved doesn't meet validation rules
	ErrInvalidData = errors.New("invalid data")

	// ErrSerialization is returned for serialization failures and deadlocks.
	ErrSerialization = errors.New("serialization failure")

	// ErrConnection is returned when the server cannot be reached or drops the connection.
	ErrConnection = errors.New("database connection error")
)

// PostgreSQL SQLSTATE codes the package recognises.
const (
	sqlStateUniqueViolation      = "23505"
	sqlStateForeignKeyViolation  = "23503"
	sqlStateNotNullViolation     = "23502"
	sqlStateCheckViolation       = "23514"
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateClassConnection      = "08"
)

// TranslateError converts GORM/driver-specific errors into the package errors.
// The original error stays in the chain, so both errors.Is(err, ErrDuplicateKey)
// and errors.As(err, &pgErr) keep working.
// If an error doesn't match any known type, it's returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrRecordNotFound), errors.Is(err, ErrDuplicateKey),
		errors.Is(err, ErrForeignKey), errors.Is(err, ErrInvalidData),
		errors.Is(err, ErrSerialization), errors.Is(err, ErrConnection):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return wrap(ErrRecordNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return wrap(ErrDuplicateKey, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return wrap(ErrForeignKey, err)
	case errors.Is(err, gorm.ErrInvalidData), errors.Is(err, gorm.ErrCheckConstraintViolated):
		return wrap(ErrInvalidData, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == sqlStateUniqueViolation:
			return wrap(ErrDuplicateKey, err)
		case pgErr.Code == sqlStateForeignKeyViolation:
			return wrap(ErrForeignKey, err)
		case pgErr.Code == sqlStateNotNullViolation, pgErr.Code == sqlStateCheckViolation:
			return wrap(ErrInvalidData, err)
		case pgErr.Code == sqlStateSerializationFailure, pgErr.Code == sqlStateDeadlockDetected:
			return wrap(ErrSerialization, err)
		case strings.HasPrefix(pgErr.Code, sqlStateClassConnection):
			return wrap(ErrConnection, err)
		}
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return wrap(ErrConnection, err)
	}

	return err
}

// IsRetryable reports whether repeating the operation may succeed.
// Constraint violations and missing rows are permanent.
func IsRetryable(err error) bool {
	err = TranslateError(err)
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrSerialization), errors.Is(err, ErrConnection):
		return true
	case errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return false
}

type translatedError struct {
	kind  error
	cause error
}

func wrap(kind, cause error) error {
	return &translatedError{kind: kind, cause: cause}
}

func (e *translatedError) Error() string {
	return e.kind.Error() + ": " + e.cause.Error()
}

func (e *translatedError) Unwrap() []error {
	return []error{e.kind, e.cause}
}
