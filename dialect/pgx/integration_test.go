//go:build integration

package pgx

import (
	"context"
	"testing"
	"time"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/daogen"
	"github.com/syssam/daogen/dialect"
	sqlschema "github.com/syssam/daogen/dialect/sql/schema"
	"github.com/syssam/daogen/dialect/sql/sqlgraph"
	"github.com/syssam/daogen/internal/testutil"
	"github.com/syssam/daogen/schema"
	"github.com/syssam/daogen/schema/field"
)

func accountSchema(t *testing.T) string {
	t.Helper()
	s := schema.New(
		schema.NewTable("Account", []schema.Field{
			field.ID("account_id"),
			field.UniqueString("username"),
			field.DateTime("date_created"),
			field.Decimal("balance", 10, 2).Nillable(),
			field.Strings("tags"),
		}),
		schema.NewTable("Interest", []schema.Field{
			field.ID("interest_id"),
			field.UniqueString("interest_name"),
		}),
		schema.NewJoinTable("Account", "account_id", "Interest", "interest_id"),
	)
	ddl, err := sqlschema.DDL(s)
	require.NoError(t, err)
	return ddl
}

func joinSpec(accountID, interestID int32) *sqlgraph.InsertSpec {
	return &sqlgraph.InsertSpec{
		Table: "InterestForAccount",
		Unique: &sqlgraph.UniqueCheck{
			Query:   sqlgraph.ExistsQuery("InterestForAccount", "account_id", "interest_id"),
			Columns: [2]string{"account_id", "interest_id"},
			Values:  [2]any{accountID, interestID},
		},
		Statement: sqlgraph.InsertStatement("InterestForAccount", []string{"account_id", "interest_id"}),
		Values:    []any{accountID, interestID},
	}
}

func TestIntegrationInsertAndHydrate(t *testing.T) {
	ctx := context.Background()
	drv, err := Open(ctx, testutil.DSN(t, accountSchema(t)))
	require.NoError(t, err)
	defer drv.Close(ctx)

	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	balance := decimal.RequireFromString("12.50")
	err = sqlgraph.InsertNode(ctx, drv, &sqlgraph.InsertSpec{
		Table:     "Account",
		Statement: sqlgraph.InsertStatement("Account", []string{"username", "date_created", "balance", "tags"}),
		Values:    []any{"alice", created, &balance, []string{"go", "sql"}},
	})
	require.NoError(t, err)
	require.NoError(t, sqlgraph.InsertNode(ctx, drv, &sqlgraph.InsertSpec{
		Table:     "Interest",
		Statement: sqlgraph.InsertStatement("Interest", []string{"interest_name"}),
		Values:    []any{"golang"},
	}))

	require.NoError(t, sqlgraph.InsertNode(ctx, drv, joinSpec(1, 1)))

	err = sqlgraph.InsertNode(ctx, drv, joinSpec(1, 1))
	require.Error(t, err)
	assert.True(t, daogen.IsConstraintViolation(err))
	assert.Equal(t, "A row already exists where account_id = `1` and interest_id = `1`", err.Error())

	// A check that misses a concurrent writer still reports a duplicate.
	blind := dialect.Funcs(drv.Exec, func(context.Context, string, ...any) (dialect.Row, error) {
		return drv.QueryOne(ctx, "SELECT false")
	})
	err = sqlgraph.InsertNode(ctx, blind, joinSpec(1, 1))
	assert.True(t, daogen.IsConstraintViolation(err))

	err = sqlgraph.InsertNode(ctx, drv, joinSpec(1, 42))
	require.Error(t, err)
	assert.False(t, daogen.IsConstraintViolation(err))
	assert.True(t, sqlgraph.IsForeignKeyConstraintError(err))

	rows, err := drv.Query(ctx, "SELECT * FROM Account WHERE username = $1", "alice")
	require.NoError(t, err)
	c, err := pgxv5.CollectExactlyOneRow(rows, ScanColumns)
	require.NoError(t, err)

	var (
		id       *uint32
		username string
		when     time.Time
		got      *decimal.Decimal
		tags     []string
	)
	require.NoError(t, c.GetColumn("account_id", &id))
	require.NoError(t, c.GetColumn("username", &username))
	require.NoError(t, c.GetColumn("date_created", &when))
	require.NoError(t, c.GetColumn("balance", &got))
	require.NoError(t, c.GetColumn("tags", &tags))
	require.NotNil(t, id)
	assert.Equal(t, uint32(1), *id)
	assert.Equal(t, "alice", username)
	assert.True(t, created.Equal(when))
	require.NotNil(t, got)
	assert.True(t, balance.Equal(*got))
	assert.Equal(t, []string{"go", "sql"}, tags)
}

func TestIntegrationTx(t *testing.T) {
	ctx := context.Background()
	drv, err := Open(ctx, testutil.DSN(t, accountSchema(t)))
	require.NoError(t, err)
	defer drv.Close(ctx)

	tx, err := drv.BeginTx(ctx, pgxv5.TxOptions{IsoLevel: pgxv5.Serializable})
	require.NoError(t, err)
	require.NoError(t, sqlgraph.InsertNode(ctx, tx, &sqlgraph.InsertSpec{
		Table:     "Interest",
		Statement: sqlgraph.InsertStatement("Interest", []string{"interest_name"}),
		Values:    []any{"rollback"},
	}))
	require.NoError(t, tx.Rollback(ctx))

	row, err := drv.QueryOne(ctx, "SELECT count(*) FROM Interest")
	require.NoError(t, err)
	var n int64
	require.NoError(t, row.Get(0, &n))
	assert.Zero(t, n)
}
