package pgx

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syssam/daogen"
	"github.com/syssam/daogen/dialect"
)

// Querier is the subset of the pgx API the driver runs statements on.
// Implemented by *pgx.Conn, *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgxv5.Rows, error)
}

// txBeginner is implemented by *pgx.Conn and *pgxpool.Pool.
type txBeginner interface {
	BeginTx(ctx context.Context, opts pgxv5.TxOptions) (pgxv5.Tx, error)
}

// Driver implements dialect.ExecQuerier on top of pgx.
type Driver struct {
	Querier
}

// NewDriver returns a Driver running statements on q.
func NewDriver(q Querier) *Driver {
	return &Driver{Querier: q}
}

// Open creates a connection pool for the given connection string.
func Open(ctx context.Context, dsn string) (*Driver, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("dialect/pgx: open: %w", err)
	}
	return NewDriver(pool), nil
}

// Pool returns the underlying pool, or nil if the driver wraps a single
// connection or a transaction.
func (d *Driver) Pool() *pgxpool.Pool {
	p, _ := d.Querier.(*pgxpool.Pool)
	return p
}

// Dialect returns the dialect of the driver.
func (*Driver) Dialect() string {
	return dialect.Postgres
}

// Close closes the underlying pool or connection.
func (d *Driver) Close(ctx context.Context) error {
	switch q := d.Querier.(type) {
	case *pgxpool.Pool:
		q.Close()
	case *pgxv5.Conn:
		return q.Close(ctx)
	}
	return nil
}

// Exec implements the dialect.ExecQuerier interface.
func (d *Driver) Exec(ctx context.Context, query string, args ...any) (rerr error) {
	q, release, err := d.session(ctx)
	if err != nil {
		return fmt.Errorf("dialect/pgx: exec: apply settings: %w", err)
	}
	if release != nil {
		defer func() { rerr = errors.Join(rerr, release()) }()
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("dialect/pgx: exec: %w", err)
	}
	return nil
}

// QueryOne implements the dialect.ExecQuerier interface. The result set
// must hold exactly one row; otherwise a daogen.NotSingularError is returned.
func (d *Driver) QueryOne(ctx context.Context, query string, args ...any) (_ dialect.Row, rerr error) {
	q, release, err := d.session(ctx)
	if err != nil {
		return nil, fmt.Errorf("dialect/pgx: query: apply settings: %w", err)
	}
	if release != nil {
		defer func() { rerr = errors.Join(rerr, release()) }()
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("dialect/pgx: query: %w", err)
	}
	row, err := pgxv5.CollectExactlyOneRow(rows, ScanColumns)
	switch {
	case errors.Is(err, pgxv5.ErrNoRows):
		return nil, daogen.NewNotSingularError(0)
	case errors.Is(err, pgxv5.ErrTooManyRows):
		return nil, daogen.NewNotSingularError(-1)
	case err != nil:
		return nil, fmt.Errorf("dialect/pgx: query: %w", err)
	}
	return row, nil
}

// session returns the querier to run the next statement on, with the
// settings carried by ctx applied. A pool lends one connection for the
// statement; release resets it and returns it. Other queriers keep the
// settings.
func (d *Driver) session(ctx context.Context) (Querier, func() error, error) {
	settings := dialect.Settings(ctx)
	if len(settings) == 0 {
		return d.Querier, nil, nil
	}
	for _, s := range settings {
		if !dialect.ValidSettingName(s.Name) {
			return nil, nil, fmt.Errorf("invalid setting name %q", s.Name)
		}
	}
	var (
		q       = d.Querier
		discard func() error
		release func() error
	)
	if pool, ok := q.(*pgxpool.Pool); ok {
		conn, err := pool.Acquire(ctx)
		if err != nil {
			return nil, nil, err
		}
		q = conn
		// A connection that may hold a setting is closed, not pooled again.
		discard = func() error {
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			return conn.Hijack().Close(rctx)
		}
		release = func() error {
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			for _, s := range settings {
				if _, err := conn.Exec(rctx, dialect.ResetQuery(s.Name)); err != nil {
					return errors.Join(err, discard())
				}
			}
			conn.Release()
			return nil
		}
	}
	for _, s := range settings {
		if _, err := q.Exec(ctx, dialect.SetConfigQuery, s.Name, s.Value); err != nil {
			if discard != nil {
				err = errors.Join(err, discard())
			}
			return nil, nil, err
		}
	}
	return q, release, nil
}

// BeginTx starts a transaction.
func (d *Driver) BeginTx(ctx context.Context, opts pgxv5.TxOptions) (*Tx, error) {
	b, ok := d.Querier.(txBeginner)
	if !ok {
		return nil, fmt.Errorf("dialect/pgx: cannot start a transaction on %T", d.Querier)
	}
	tx, err := b.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("dialect/pgx: begin: %w", err)
	}
	return &Tx{Driver: Driver{Querier: tx}, tx: tx}, nil
}

// Tx is a Driver bound to a transaction.
type Tx struct {
	Driver
	tx pgxv5.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error { return t.tx.Commit(ctx) }

// Rollback rolls back the transaction. It is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

var (
	_ dialect.ExecQuerier = (*Driver)(nil)
	_ dialect.ExecQuerier = (*Tx)(nil)
	_ Querier             = (*pgxv5.Conn)(nil)
	_ Querier             = (*pgxpool.Pool)(nil)
	_ Querier             = (*pgxpool.Conn)(nil)
)
