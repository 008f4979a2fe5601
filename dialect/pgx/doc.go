// Package pgx adapts github.com/jackc/pgx/v5 to the client contract of
// generated data-access code.
//
//	drv, err := pgx.Open(ctx, "postgres://localhost/app")
//	if err != nil {
//	    return err
//	}
//	defer drv.Close(ctx)
//	err = dao.NewInterest(nil, "golang").InsertSelfIntoTable(ctx, drv)
//
// NewDriver accepts a *pgx.Conn, a *pgxpool.Pool or a pgx.Tx. Rows are
// decoded with pgx's own type map, so Postgres arrays, numeric and
// timestamptz values scan directly into the generated field types.
package pgx
