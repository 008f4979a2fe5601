package sqlgraph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

type stateErr string

func (e stateErr) Error() string    { return "state " + string(e) }
func (e stateErr) SQLState() string { return string(e) }

func TestConstraintErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		unique     bool
		foreignKey bool
		notNull    bool
		check      bool
	}{
		{name: "nil", err: nil},
		{name: "plain", err: errors.New("connection refused")},
		{name: "pq_unique", err: &pq.Error{Code: "23505"}, unique: true},
		{name: "pq_fk", err: &pq.Error{Code: "23503"}, foreignKey: true},
		{name: "pq_not_null", err: &pq.Error{Code: "23502"}, notNull: true},
		{name: "pq_check", err: &pq.Error{Code: "23514"}, check: true},
		{name: "pgconn_unique", err: &pgconn.PgError{Code: "23505"}, unique: true},
		{name: "pgconn_fk_wrapped", err: fmt.Errorf("dialect/pgx: exec: %w", &pgconn.PgError{Code: "23503"}), foreignKey: true},
		{name: "sqlstate_interface", err: stateErr("23514"), check: true},
		{name: "message_fallback", err: errors.New(`duplicate key value violates unique constraint "x_key"`), unique: true},
		{name: "code_wins_over_message", err: &pq.Error{Code: "42P01", Message: "violates unique constraint"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, IsUniqueConstraintError(tt.err))
			assert.Equal(t, tt.foreignKey, IsForeignKeyConstraintError(tt.err))
			assert.Equal(t, tt.notNull, IsNotNullConstraintError(tt.err))
			assert.Equal(t, tt.check, IsCheckConstraintError(tt.err))
			assert.Equal(t, tt.unique || tt.foreignKey || tt.notNull || tt.check, IsConstraintError(tt.err))
		})
	}
}

func TestSQLStateAndConstraintName(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &pq.Error{Code: "23505", Constraint: "User_username_key"})
	assert.Equal(t, "23505", SQLState(err))
	assert.Equal(t, "User_username_key", ConstraintName(err))

	err = &pgconn.PgError{Code: "23505", ConstraintName: "InterestForUser_user_id_interest_id_key"}
	assert.Equal(t, "23505", SQLState(err))
	assert.Equal(t, "InterestForUser_user_id_interest_id_key", ConstraintName(err))

	assert.Empty(t, SQLState(errors.New("x")))
	assert.Empty(t, ConstraintName(nil))
}
