// Package daogen holds the runtime error types returned by generated
// data-access code.
//
// An insert either succeeds, reports a constraint violation (a row with the
// same composite key already exists) or fails for an infrastructure reason:
//
//	err := m.InsertSelfIntoTable(ctx, client)
//	switch {
//	case err == nil:
//	case daogen.IsConstraintViolation(err):
//	    // duplicate, nothing was written
//	default:
//	    return err
//	}
//
// Row hydration failures are reported as *HydrationError, naming the table
// and the column that could not be read.
//
// The code generator itself lives in the compiler package and the daogen
// command.
package daogen
