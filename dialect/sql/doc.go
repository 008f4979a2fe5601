// Package sql adapts database/sql to the client contract of generated
// data-access code.
//
// Open returns a Driver backed by lib/pq:
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://localhost/app?sslmode=disable")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//	err = dao.NewUser(nil, "alice", time.Now()).InsertSelfIntoTable(ctx, drv)
//
// Slice arguments are bound as Postgres arrays, and slice destinations are
// decoded from them, through pq.Array.
//
// Rows returned by database/sql can be hydrated by column name:
//
//	rows, err := drv.DB().QueryContext(ctx, "SELECT * FROM User")
//	for rows.Next() {
//	    c, err := sql.ScanColumns(rows)
//	    u, err := dao.UserFromRow(c)
//	}
//
// StatsDriver and DebugDriver wrap any dialect.ExecQuerier with statistics
// and log/slog statement logging.
package sql
