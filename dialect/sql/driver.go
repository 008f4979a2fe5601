package sql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver.

	"github.com/syssam/daogen"
	"github.com/syssam/daogen/dialect"
)

// ExecQuerier wraps the standard Exec and Query methods.
// Implemented by *sql.DB, *sql.Tx and *sql.Conn.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Driver implements dialect.ExecQuerier on top of database/sql.
type Driver struct {
	ExecQuerier
}

// NewDriver returns a Driver running statements on ex.
func NewDriver(ex ExecQuerier) *Driver {
	return &Driver{ExecQuerier: ex}
}

// Open wraps the database/sql.Open method and returns a Driver. The
// "postgres" driver name is registered by lib/pq.
func Open(driverName, source string) (*Driver, error) {
	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, err
	}
	return NewDriver(db), nil
}

// OpenDB wraps the given database/sql.DB with a Driver.
func OpenDB(db *sql.DB) *Driver {
	return NewDriver(db)
}

// DB returns the underlying *sql.DB instance, or nil if the driver wraps a
// transaction or a connection.
func (d *Driver) DB() *sql.DB {
	db, _ := d.ExecQuerier.(*sql.DB)
	return db
}

// Dialect returns the dialect of the driver.
func (*Driver) Dialect() string {
	return dialect.Postgres
}

// Close closes the underlying database.
func (d *Driver) Close() error {
	if db := d.DB(); db != nil {
		return db.Close()
	}
	return nil
}

// Tx starts and returns a transaction.
func (d *Driver) Tx(ctx context.Context) (*Tx, error) {
	return d.BeginTx(ctx, nil)
}

// BeginTx starts a transaction with options.
func (d *Driver) BeginTx(ctx context.Context, opts *TxOptions) (*Tx, error) {
	db := d.DB()
	if db == nil {
		return nil, fmt.Errorf("dialect/sql: cannot start a transaction on %T", d.ExecQuerier)
	}
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{Driver: Driver{ExecQuerier: tx}, tx: tx}, nil
}

// Tx is a Driver bound to a database transaction. Running the generated
// uniqueness check and insert inside one Tx removes the window between them
// when the transaction is SERIALIZABLE.
type Tx struct {
	Driver
	tx *sql.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit() error { return t.tx.Commit() }

// Rollback rolls back the transaction.
func (t *Tx) Rollback() error { return t.tx.Rollback() }

// Exec implements the dialect.ExecQuerier interface.
func (d *Driver) Exec(ctx context.Context, query string, args ...any) (rerr error) {
	ex, release, err := d.session(ctx)
	if err != nil {
		return fmt.Errorf("dialect/sql: exec: apply settings: %w", err)
	}
	if release != nil {
		defer func() { rerr = errors.Join(rerr, release()) }()
	}
	if _, err := ex.ExecContext(ctx, query, BindArgs(args)...); err != nil {
		return fmt.Errorf("dialect/sql: exec: %w", err)
	}
	return nil
}

// QueryOne implements the dialect.ExecQuerier interface. The result set
// must hold exactly one row; otherwise a daogen.NotSingularError is returned.
func (d *Driver) QueryOne(ctx context.Context, query string, args ...any) (_ dialect.Row, rerr error) {
	ex, release, err := d.session(ctx)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: query: apply settings: %w", err)
	}
	if release != nil {
		defer func() { rerr = errors.Join(rerr, release()) }()
	}
	rows, err := ex.QueryContext(ctx, query, BindArgs(args)...)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: query: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("dialect/sql: query: %w", err)
		}
		return nil, daogen.NewNotSingularError(0)
	}
	row, err := ScanColumns(rows)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: query: %w", err)
	}
	if rows.Next() {
		return nil, daogen.NewNotSingularError(-1)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dialect/sql: query: %w", err)
	}
	return row, nil
}

// session returns the executor to run the next statement on, with the
// settings carried by ctx applied. On a *sql.DB the settings need a
// dedicated connection; release resets them and hands the connection back
// to the pool. Transactions and connections keep the settings.
func (d *Driver) session(ctx context.Context) (ex ExecQuerier, release func() error, err error) {
	settings := dialect.Settings(ctx)
	if len(settings) == 0 {
		return d.ExecQuerier, nil, nil
	}
	for _, s := range settings {
		if !dialect.ValidSettingName(s.Name) {
			return nil, nil, fmt.Errorf("invalid setting name %q", s.Name)
		}
	}
	var discard func() error
	switch e := d.ExecQuerier.(type) {
	case *sql.Tx, *sql.Conn:
		ex = e
	case *sql.DB:
		conn, err := e.Conn(ctx)
		if err != nil {
			return nil, nil, err
		}
		ex = conn
		// A connection that may hold a setting is never pooled again.
		discard = func() error {
			_ = conn.Raw(func(any) error { return driver.ErrBadConn })
			return conn.Close()
		}
		release = func() error {
			// The connection goes back to the pool even if ctx is done.
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			for _, s := range settings {
				if _, err := conn.ExecContext(rctx, dialect.ResetQuery(s.Name)); err != nil {
					return errors.Join(err, discard())
				}
			}
			return conn.Close()
		}
	default:
		return nil, nil, fmt.Errorf("settings are not supported on %T", d.ExecQuerier)
	}
	for _, s := range settings {
		if _, err := ex.ExecContext(ctx, dialect.SetConfigQuery, s.Name, s.Value); err != nil {
			if discard != nil {
				err = errors.Join(err, discard())
			}
			return nil, nil, err
		}
	}
	return ex, release, nil
}

var (
	_ dialect.ExecQuerier = (*Driver)(nil)
	_ dialect.ExecQuerier = (*Tx)(nil)
)

type (
	// Result is an alias to sql.Result.
	Result = sql.Result
	// TxOptions holds the transaction options to be used in DB.BeginTx.
	TxOptions = sql.TxOptions
)
