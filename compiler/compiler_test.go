package compiler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/daogen/compiler/gen"
	"github.com/syssam/daogen/schema"
	"github.com/syssam/daogen/schema/field"
)

func userInterest() *schema.Schema {
	return schema.New(
		schema.NewTable("User", []schema.Field{
			field.ID("user_id"),
			field.UniqueString("username"),
			field.DateTime("date_created"),
		}),
		schema.NewTable("Interest", []schema.Field{
			field.ID("interest_id"),
			field.UniqueString("interest_name"),
		}),
		schema.NewJoinTable("User", "user_id", "Interest", "interest_id"),
	)
}

const userInterestDDL = `CREATE TABLE User (
    user_id SERIAL NOT NULL UNIQUE,
    username TEXT NOT NULL UNIQUE,
    date_created TIMESTAMPTZ NOT NULL
);

CREATE TABLE Interest (
    interest_id SERIAL NOT NULL UNIQUE,
    interest_name TEXT NOT NULL UNIQUE
);

CREATE TABLE InterestForUser (
    user_id INT NOT NULL REFERENCES User(user_id),
    interest_id INT NOT NULL REFERENCES Interest(interest_id),
    UNIQUE (user_id, interest_id)
);`

func TestEmitDDL(t *testing.T) {
	ddl, err := EmitDDL(userInterest())
	require.NoError(t, err)
	assert.Equal(t, userInterestDDL, ddl)

	again, err := EmitDDL(userInterest())
	require.NoError(t, err)
	assert.Equal(t, ddl, again)

	_, err = EmitDDL(schema.New())
	assert.ErrorIs(t, err, gen.ErrNoTables)
	_, err = EmitDDL(schema.New(schema.NewTable("bad name", nil)))
	assert.ErrorIs(t, err, schema.ErrInvalidIdentifier)
}

func TestEmitSource(t *testing.T) {
	src, err := EmitSource(userInterest(), gen.WithPackage("github.com/acme/app/store"))
	require.NoError(t, err)
	assert.Contains(t, src, "package store")
	for _, decl := range []string{
		"type User struct",
		"func NewUser(userID *uint32, username string, dateCreated time.Time) *User",
		"func UserFromRow(row dialect.ColumnGetter) (*User, error)",
		"func (_e *InterestForUser) InsertSelfIntoTable(ctx context.Context, client dialect.ExecQuerier) error",
		"const SchemaSQL = ",
	} {
		assert.Contains(t, src, decl)
	}
	// The SchemaSQL constant holds the same script as EmitDDL.
	ddl, err := EmitDDL(userInterest())
	require.NoError(t, err)
	for _, line := range strings.Split(ddl, "\n") {
		assert.Contains(t, src, line)
	}

	_, err = EmitSource(userInterest(), gen.WithPackage(""))
	assert.Error(t, err)
	_, err = EmitSource(schema.New())
	assert.ErrorIs(t, err, gen.ErrNoTables)
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Generate(context.Background(), userInterest(), gen.WithTarget(dir)))
	for _, name := range []string{"user.go", "interest.go", "interest_for_user.go", "schema.go"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	assert.ErrorIs(t, Generate(context.Background(), userInterest()), gen.ErrMissingConfig)
}

func TestLoadGenerate(t *testing.T) {
	dir := t.TempDir()
	def := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(def, []byte(`
tables:
  - name: Account
    fields:
      - {name: account_id, type: serial, unique: true}
      - {name: email, type: string, unique: true}
`), 0o644))
	require.NoError(t, LoadGenerate(context.Background(), def, gen.WithTarget(dir)))
	src, err := os.ReadFile(filepath.Join(dir, "account.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "type Account struct")

	err = LoadGenerate(context.Background(), filepath.Join(dir, "missing.yaml"), gen.WithTarget(dir))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

type extension struct {
	calls *[]string
}

func (e extension) Hooks() []gen.Hook {
	return []gen.Hook{func(next gen.Generator) gen.Generator {
		return gen.GenerateFunc(func(g *gen.Graph) error {
			*e.calls = append(*e.calls, "before")
			err := next.Generate(g)
			*e.calls = append(*e.calls, "after")
			return err
		})
	}}
}

func (e extension) Options() []gen.Option {
	return []gen.Option{gen.WithPackage("store")}
}

type failingExtension struct{ extension }

func (failingExtension) Options() []gen.Option {
	return []gen.Option{func(*gen.Config) error { return errors.New("extension failed") }}
}

func TestExtensions(t *testing.T) {
	var calls []string
	dir := t.TempDir()
	ex := extension{calls: &calls}
	require.NoError(t, Generate(context.Background(), userInterest(), gen.WithTarget(dir), Extensions(ex)))
	assert.Equal(t, []string{"before", "after"}, calls)
	src, err := os.ReadFile(filepath.Join(dir, "user.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package store")

	err = Generate(context.Background(), userInterest(), gen.WithTarget(dir), Extensions(failingExtension{ex}))
	assert.EqualError(t, err, "extension failed")
}
