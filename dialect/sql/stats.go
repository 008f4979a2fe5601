package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/syssam/daogen/dialect"
)

// DefaultSlowThreshold is the duration above which a statement is counted
// as slow by a StatsDriver.
const DefaultSlowThreshold = 100 * time.Millisecond

// QueryStats counts the statements run through a StatsDriver. Generated
// code issues QueryOne for uniqueness checks and Exec for inserts.
type QueryStats struct {
	Checks   atomic.Int64
	Execs    atomic.Int64
	Duration atomic.Int64 // nanoseconds
	Slow     atomic.Int64
	Errors   atomic.Int64
}

// Snapshot returns the current counters.
func (s *QueryStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Checks:   s.Checks.Load(),
		Execs:    s.Execs.Load(),
		Duration: time.Duration(s.Duration.Load()),
		Slow:     s.Slow.Load(),
		Errors:   s.Errors.Load(),
	}
}

// Reset sets all counters to zero.
func (s *QueryStats) Reset() {
	s.Checks.Store(0)
	s.Execs.Store(0)
	s.Duration.Store(0)
	s.Slow.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time copy of QueryStats.
type StatsSnapshot struct {
	Checks   int64
	Execs    int64
	Duration time.Duration
	Slow     int64
	Errors   int64
}

// Avg returns the average statement duration.
func (s StatsSnapshot) Avg() time.Duration {
	total := s.Checks + s.Execs
	if total == 0 {
		return 0
	}
	return s.Duration / time.Duration(total)
}

func (s StatsSnapshot) String() string {
	return fmt.Sprintf("checks=%d execs=%d duration=%s avg=%s slow=%d errors=%d",
		s.Checks, s.Execs, s.Duration, s.Avg(), s.Slow, s.Errors)
}

// LogValue implements slog.LogValuer.
func (s StatsSnapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("checks", s.Checks),
		slog.Int64("execs", s.Execs),
		slog.Duration("duration", s.Duration),
		slog.Int64("slow", s.Slow),
		slog.Int64("errors", s.Errors),
	)
}

// SlowQueryHook is called for every statement slower than the threshold.
type SlowQueryHook func(ctx context.Context, query string, args []any, duration time.Duration)

// StatsDriver wraps an ExecQuerier and counts the statements it runs. It
// works with any client, including the pgx adapter.
//
//	stats := sql.NewStatsDriver(drv, sql.WithSlowQueryLog(logger))
//	err := row.InsertSelfIntoTable(ctx, stats)
//	logger.Info("done", "stats", stats.Stats().Snapshot())
type StatsDriver struct {
	dialect.ExecQuerier
	stats     QueryStats
	threshold time.Duration
	hook      SlowQueryHook
}

// StatsOption configures a StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the slow statement threshold.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.threshold = d
	}
}

// WithSlowQueryHook sets the function called for slow statements.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) {
		s.hook = hook
	}
}

// WithSlowQueryLog logs slow statements as warnings on l, or on the
// default logger if l is nil.
func WithSlowQueryLog(l *slog.Logger) StatsOption {
	if l == nil {
		l = slog.Default()
	}
	return WithSlowQueryHook(func(ctx context.Context, query string, args []any, d time.Duration) {
		l.WarnContext(ctx, "slow statement", "duration", d, "query", query, "args", args)
	})
}

// NewStatsDriver wraps drv with statement counting.
func NewStatsDriver(drv dialect.ExecQuerier, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		ExecQuerier: drv,
		threshold:   DefaultSlowThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats returns the counters of the driver.
func (d *StatsDriver) Stats() *QueryStats {
	return &d.stats
}

// QueryOne implements the dialect.ExecQuerier interface.
func (d *StatsDriver) QueryOne(ctx context.Context, query string, args ...any) (dialect.Row, error) {
	start := time.Now()
	row, err := d.ExecQuerier.QueryOne(ctx, query, args...)
	d.stats.Checks.Add(1)
	d.record(ctx, query, args, start, err)
	return row, err
}

// Exec implements the dialect.ExecQuerier interface.
func (d *StatsDriver) Exec(ctx context.Context, query string, args ...any) error {
	start := time.Now()
	err := d.ExecQuerier.Exec(ctx, query, args...)
	d.stats.Execs.Add(1)
	d.record(ctx, query, args, start, err)
	return err
}

func (d *StatsDriver) record(ctx context.Context, query string, args []any, start time.Time, err error) {
	elapsed := time.Since(start)
	d.stats.Duration.Add(int64(elapsed))
	if err != nil {
		d.stats.Errors.Add(1)
	}
	if elapsed > d.threshold {
		d.stats.Slow.Add(1)
		if d.hook != nil {
			d.hook(ctx, query, args, elapsed)
		}
	}
}

// DebugDriver logs every statement before running it.
type DebugDriver struct {
	dialect.ExecQuerier
	log   *slog.Logger
	level slog.Level
}

// NewDebugDriver wraps drv and logs statements at debug level on l, or on
// the default logger if l is nil.
func NewDebugDriver(drv dialect.ExecQuerier, l *slog.Logger) *DebugDriver {
	if l == nil {
		l = slog.Default()
	}
	return &DebugDriver{ExecQuerier: drv, log: l, level: slog.LevelDebug}
}

// WithLevel returns a copy of d logging at level.
func (d *DebugDriver) WithLevel(level slog.Level) *DebugDriver {
	c := *d
	c.level = level
	return &c
}

// QueryOne implements the dialect.ExecQuerier interface.
func (d *DebugDriver) QueryOne(ctx context.Context, query string, args ...any) (dialect.Row, error) {
	d.log.Log(ctx, d.level, "query", "sql", query, "args", args)
	return d.ExecQuerier.QueryOne(ctx, query, args...)
}

// Exec implements the dialect.ExecQuerier interface.
func (d *DebugDriver) Exec(ctx context.Context, query string, args ...any) error {
	d.log.Log(ctx, d.level, "exec", "sql", query, "args", args)
	return d.ExecQuerier.Exec(ctx, query, args...)
}

var (
	_ dialect.ExecQuerier = (*StatsDriver)(nil)
	_ dialect.ExecQuerier = (*DebugDriver)(nil)
	_ slog.LogValuer      = StatsSnapshot{}
)
