package daogen

import (
	"errors"
	"fmt"
)

// Standard sentinel errors returned by generated data-access code.
var (
	// ErrConstraintViolation matches every InsertError that reports a
	// business-rule duplicate rather than an infrastructure failure.
	ErrConstraintViolation = errors.New("daogen: constraint violation")

	// ErrNotSingular is returned when a query that expects exactly one row
	// returns zero or several.
	ErrNotSingular = errors.New("daogen: result not singular")
)

// InsertError is the two-part failure returned by InsertSelfIntoTable.
//
// ConstraintViolation is true when a row with the same composite key already
// exists and nothing was written. It is false for query, scan and insert
// failures. Callers branch on the flag, never on Message.
type InsertError struct {
	Table               string
	ConstraintViolation bool
	Message             string
	Err                 error // underlying driver error, nil for duplicates
}

// Error returns the human-readable message.
func (e *InsertError) Error() string {
	return e.Message
}

// Unwrap returns the underlying driver error.
func (e *InsertError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConstraintViolation and e is a duplicate.
func (e *InsertError) Is(target error) bool {
	return e.ConstraintViolation && target == ErrConstraintViolation
}

// NewConstraintViolation returns the soft failure for a duplicate row.
func NewConstraintViolation(table, msg string) *InsertError {
	return &InsertError{Table: table, ConstraintViolation: true, Message: msg}
}

// NewInsertFailure returns the hard failure for a query or insert error.
func NewInsertFailure(table, msg string, err error) *InsertError {
	return &InsertError{Table: table, Message: msg, Err: err}
}

// IsConstraintViolation returns true if the error is an InsertError raised
// for a duplicate row.
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	var e *InsertError
	return errors.As(err, &e) && e.ConstraintViolation
}

// IsInsertError returns true if the error is an InsertError of either kind.
func IsInsertError(err error) bool {
	if err == nil {
		return false
	}
	var e *InsertError
	return errors.As(err, &e)
}

// HydrationError is returned by the generated FromRow functions when a
// column cannot be read. A row never hydrates partially.
type HydrationError struct {
	Table  string
	Column string
	Err    error
}

// Error returns the error string.
func (e *HydrationError) Error() string {
	return fmt.Sprintf("daogen: hydrating %s.%s: %v", e.Table, e.Column, e.Err)
}

// Unwrap returns the underlying error.
func (e *HydrationError) Unwrap() error {
	return e.Err
}

// NewHydrationError returns a new HydrationError.
func NewHydrationError(table, column string, err error) *HydrationError {
	return &HydrationError{Table: table, Column: column, Err: err}
}

// IsHydrationError returns true if the error is a HydrationError.
func IsHydrationError(err error) bool {
	if err == nil {
		return false
	}
	var e *HydrationError
	return errors.As(err, &e)
}

// NotSingularError is returned by QueryOne implementations when the result
// set does not hold exactly one row.
type NotSingularError struct {
	count int // -1 if unknown
}

// Error returns the error string.
func (e *NotSingularError) Error() string {
	if e.count >= 0 {
		return fmt.Sprintf("daogen: result not singular (got %d rows, expected 1)", e.count)
	}
	return "daogen: result not singular"
}

// Is reports whether the target error matches ErrNotSingular.
func (e *NotSingularError) Is(err error) bool {
	return err == ErrNotSingular
}

// Count returns the number of rows seen, or -1 if unknown.
func (e *NotSingularError) Count() int {
	return e.count
}

// NewNotSingularError returns a NotSingularError for the given row count.
// A negative count means "more than one, not counted".
func NewNotSingularError(count int) *NotSingularError {
	if count < 0 {
		count = -1
	}
	return &NotSingularError{count: count}
}

// IsNotSingular returns true if the error is a NotSingularError.
func IsNotSingular(err error) bool {
	if err == nil {
		return false
	}
	var e *NotSingularError
	return errors.As(err, &e) || errors.Is(err, ErrNotSingular)
}

// MissingColumnError is returned by column getters when a row has no column
// with the requested name.
type MissingColumnError struct {
	Column string
}

// Error returns the error string.
func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("daogen: column %q not present in row", e.Column)
}
