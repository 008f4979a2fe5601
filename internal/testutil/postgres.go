// Package testutil provides a shared PostgreSQL container for integration
// tests.
package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	singletonOnce sync.Once
	singletonDSN  string
	singletonErr  error
)

// ensureSingleton lazily starts the PostgreSQL container.
func ensureSingleton() (string, error) {
	singletonOnce.Do(func() {
		ctx := context.Background()
		container, err := postgres.Run(ctx,
			"postgres:18-alpine",
			postgres.WithDatabase("postgres"),
			postgres.WithUsername("test"),
			postgres.WithPassword("test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			singletonErr = fmt.Errorf("failed to start PostgreSQL container: %w", err)
			return
		}
		dsn, err := container.ConnectionString(ctx)
		if err != nil {
			_ = container.Terminate(ctx)
			singletonErr = fmt.Errorf("failed to get PostgreSQL connection string: %w", err)
			return
		}
		singletonDSN = dsn + "sslmode=disable"
		// Ryuk removes the container when the test binary exits.
	})
	return singletonDSN, singletonErr
}

// DSN creates an empty database, applies ddl to it and returns its
// connection string. The database is dropped when the test completes.
func DSN(tb testing.TB, ddl string) string {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping PostgreSQL integration test in short mode")
	}

	adminDSN, err := ensureSingleton()
	require.NoError(tb, err, "failed to start PostgreSQL container")

	name := uniqueDBName("daogen")
	admin, err := sql.Open("postgres", adminDSN)
	require.NoError(tb, err)
	defer func() { _ = admin.Close() }()
	_, err = admin.Exec("CREATE DATABASE " + name)
	require.NoError(tb, err, "failed to create test database")

	dsn, err := replaceDBName(adminDSN, name)
	require.NoError(tb, err)

	if ddl != "" {
		db, err := sql.Open("postgres", dsn)
		require.NoError(tb, err)
		_, err = db.Exec(ddl)
		_ = db.Close()
		require.NoError(tb, err, "failed to apply schema")
	}

	tb.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := sql.Open("postgres", adminDSN)
		if err != nil {
			return
		}
		defer func() { _ = db.Close() }()
		_, _ = db.ExecContext(ctx, "SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = $1 AND pid <> pg_backend_pid()", name)
		_, _ = db.ExecContext(ctx, "DROP DATABASE IF EXISTS "+name)
	})
	return dsn
}

func uniqueDBName(prefix string) string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b))
}

// replaceDBName swaps the database name of a postgres:// connection URL.
func replaceDBName(dsn, name string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}
	u.Path = "/" + name
	return u.String(), nil
}
