package sqlgraph

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// PostgreSQL SQLSTATE codes for constraint violations (Class 23).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// sqlStateError is implemented by errors that carry a SQLSTATE code.
// Both *pq.Error and *pgconn.PgError implement it.
type sqlStateError interface {
	SQLState() string
}

// SQLState returns the SQLSTATE code of the first Postgres error in the
// chain of err, or "" if there is none.
func SQLState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	if e, ok := asError[sqlStateError](err); ok {
		return e.SQLState()
	}
	return ""
}

// ConstraintName returns the name of the violated constraint reported by
// the server, e.g. "InterestForUser_user_id_interest_id_key".
func ConstraintName(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// IsConstraintError returns true if the error resulted from a database
// constraint violation.
func IsConstraintError(err error) bool {
	return IsUniqueConstraintError(err) ||
		IsForeignKeyConstraintError(err) ||
		IsNotNullConstraintError(err) ||
		IsCheckConstraintError(err)
}

// IsUniqueConstraintError reports if the error resulted from a DB uniqueness
// constraint violation, e.g. a duplicate value in a unique index.
func IsUniqueConstraintError(err error) bool {
	return isViolation(err, pgUniqueViolation, "violates unique constraint")
}

// IsForeignKeyConstraintError reports if the error resulted from a database
// foreign-key constraint violation, e.g. the parent row does not exist.
func IsForeignKeyConstraintError(err error) bool {
	return isViolation(err, pgForeignKeyViolation, "violates foreign key constraint")
}

// IsNotNullConstraintError reports if the error resulted from writing NULL
// into a NOT NULL column.
func IsNotNullConstraintError(err error) bool {
	return isViolation(err, pgNotNullViolation, "violates not-null constraint")
}

// IsCheckConstraintError reports if the error resulted from a database
// check constraint violation.
func IsCheckConstraintError(err error) bool {
	return isViolation(err, pgCheckViolation, "violates check constraint")
}

func isViolation(err error, code, text string) bool {
	if err == nil {
		return false
	}
	if state := SQLState(err); state != "" {
		return state == code
	}
	// Fallback for drivers that only report the server message.
	return strings.Contains(err.Error(), text)
}

// asError attempts to extract an error implementing interface T from the error chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}
