package dialect

import "context"

// Postgres is the only dialect emitted by the compiler.
const Postgres = "postgres"

// ExecQuerier is the database client generated insert code runs against.
// Placeholders are positional ($1, $2, ...) and bound from args in order.
type ExecQuerier interface {
	// Exec executes one statement and reports success or failure.
	Exec(ctx context.Context, query string, args ...any) error
	// QueryOne runs one query and returns its single row. It fails if the
	// query returns no rows or more than one.
	QueryOne(ctx context.Context, query string, args ...any) (Row, error)
}

// Row is a single result row read by column position.
type Row interface {
	// Get decodes the value at column index i into dest, which must be a
	// pointer. It fails when the stored type cannot be converted.
	Get(i int, dest any) error
}

// ColumnGetter is a result row read by column name. It is the row source
// of the generated FromRow functions.
type ColumnGetter interface {
	// GetColumn decodes the named column into dest, which must be a
	// pointer. It fails when the column is absent or the stored type
	// cannot be converted.
	GetColumn(name string, dest any) error
}

// ExecFunc and QueryOneFunc are the two halves of an ExecQuerier.
type (
	ExecFunc     func(ctx context.Context, query string, args ...any) error
	QueryOneFunc func(ctx context.Context, query string, args ...any) (Row, error)
)

// Funcs builds an ExecQuerier from two functions.
func Funcs(exec ExecFunc, queryOne QueryOneFunc) ExecQuerier {
	return funcs{exec: exec, queryOne: queryOne}
}

type funcs struct {
	exec     ExecFunc
	queryOne QueryOneFunc
}

func (f funcs) Exec(ctx context.Context, query string, args ...any) error {
	return f.exec(ctx, query, args...)
}

func (f funcs) QueryOne(ctx context.Context, query string, args ...any) (Row, error) {
	return f.queryOne(ctx, query, args...)
}
