// Package dialect defines the database client contract used by generated
// data-access code.
//
// Generated code needs two operations from a client: execute one
// parameterized statement, and run one parameterized query that yields
// exactly one row:
//
//	type ExecQuerier interface {
//	    Exec(ctx context.Context, query string, args ...any) error
//	    QueryOne(ctx context.Context, query string, args ...any) (Row, error)
//	}
//
// Row hydration reads columns by name through ColumnGetter.
//
// # Adapters
//
//   - dialect/sql: database/sql with the lib/pq driver
//   - dialect/pgx: pgx/v5 connections, pools and transactions
//
// Both target Postgres, the only dialect the compiler emits.
package dialect
