// Package sqlgraph is the runtime used by generated InsertSelfIntoTable
// methods. InsertNode checks composite uniqueness and then inserts, and the
// Is*ConstraintError helpers classify Postgres errors from lib/pq and pgx.
package sqlgraph
