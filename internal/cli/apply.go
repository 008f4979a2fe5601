package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/syssam/daogen/dialect"
	"github.com/syssam/daogen/dialect/pgx"
	"github.com/syssam/daogen/dialect/sql"
	sqlschema "github.com/syssam/daogen/dialect/sql/schema"
	"github.com/syssam/daogen/schema"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
)

// Open connects to the database at dsn using the named driver. The returned
// function releases the connection.
func Open(ctx context.Context, driver, dsn string) (dialect.ExecQuerier, func() error, error) {
	if dsn == "" {
		return nil, nil, ConfigError("no database URL specified", nil)
	}
	switch driver {
	case "", DriverPostgres:
		drv, err := sql.Open(DriverPostgres, dsn)
		if err != nil {
			return nil, nil, DBConnectError("opening database", err)
		}
		if err := drv.DB().PingContext(ctx); err != nil {
			_ = drv.Close()
			return nil, nil, DBConnectError("connecting to database", err)
		}
		return drv, drv.Close, nil
	case DriverPgx:
		drv, err := pgx.Open(ctx, dsn)
		if err != nil {
			return nil, nil, DBConnectError("opening database", err)
		}
		if err := drv.Pool().Ping(ctx); err != nil {
			_ = drv.Close(ctx)
			return nil, nil, DBConnectError("connecting to database", err)
		}
		return drv, func() error { return drv.Close(ctx) }, nil
	default:
		return nil, nil, ConfigError(fmt.Sprintf("unknown driver %q", driver), nil)
	}
}

// WithSearchPath returns a copy of ctx under which Apply creates the tables
// in the given comma-separated list of schemas. An empty path leaves ctx
// unchanged.
func WithSearchPath(ctx context.Context, path string) context.Context {
	var schemas []string
	for _, p := range strings.Split(path, ",") {
		if p = strings.TrimSpace(p); p != "" {
			schemas = append(schemas, p)
		}
	}
	if len(schemas) == 0 {
		return ctx
	}
	return dialect.WithSearchPath(ctx, schemas...)
}

// Apply creates the tables of s through client, one CREATE TABLE statement
// per table in schema order. It stops at the first failing statement.
// Settings carried by ctx, such as the search path, apply to every
// statement.
func Apply(ctx context.Context, client dialect.ExecQuerier, s *schema.Schema, log *slog.Logger) error {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	stmts, err := statements(s)
	if err != nil {
		return err
	}
	if path, ok := dialect.SettingFromContext(ctx, dialect.SearchPath); ok {
		log = log.With("search_path", path)
	}
	drv := sql.NewStatsDriver(sql.NewDebugDriver(client, log), sql.WithSlowQueryLog(log))
	for i, stmt := range stmts {
		name := s.Tables[i].Name
		if err := drv.Exec(ctx, stmt); err != nil {
			return GeneralError(fmt.Sprintf("creating table %s", name), err)
		}
		log.Info("table created", "table", name)
	}
	log.Info("schema applied", "tables", len(stmts), "stats", drv.Stats().Snapshot())
	return nil
}

// DryRun writes the statements Apply would execute to w.
func DryRun(w io.Writer, s *schema.Schema) error {
	stmts, err := statements(s)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := fmt.Fprintf(w, "%s\n\n", stmt); err != nil {
			return err
		}
	}
	return nil
}

func statements(s *schema.Schema) ([]string, error) {
	if s == nil || len(s.Tables) == 0 {
		return nil, SchemaError("schema has no tables", nil)
	}
	stmts := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		stmt, err := sqlschema.TableDDL(t)
		if err != nil {
			return nil, SchemaError(fmt.Sprintf("rendering table %s", t.Name), err)
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}
