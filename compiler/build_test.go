package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"github.com/syssam/daogen/compiler/gen"
	"github.com/syssam/daogen/schema"
	"github.com/syssam/daogen/schema/field"
)

// everyType uses each column type, nullable and array forms, a serial column
// between other columns, a serial-only table and a composite uniqueness pair.
func everyType() *schema.Schema {
	return schema.New(
		schema.NewTable("Account", []schema.Field{
			field.String("email").Unique(),
			field.ID("account_id"),
			field.Int("age"),
			field.String("bio").Nillable(),
			field.DateTime("date_created"),
			field.Bytes("avatar").Nillable(),
			field.Decimal("balance", 12, 2),
			field.Geospatial("lat"),
			field.Strings("tags"),
			field.Array("seen", field.TypeInfo{Type: field.TypeTime}),
			field.Array("grid", field.ArrayOf(field.TypeInfo{Type: field.TypeInt})).Nillable(),
			field.Array("prices", field.DecimalOf(8, 2)),
		}, schema.WithPrimaryKey("account_id")),
		schema.NewTable("Interest", []schema.Field{
			field.ID("interest_id"),
			field.UniqueString("interest_name"),
		}),
		schema.NewJoinTable("Account", "account_id", "Interest", "interest_id"),
		schema.NewTable("Counter", []schema.Field{field.ID("id")}),
	)
}

func TestGeneratedPackageCompiles(t *testing.T) {
	if testing.Short() {
		t.Skip("type-checks generated code against the module")
	}
	// The generated code imports this module, so it must live inside it.
	dir, err := os.MkdirTemp(".", "generated")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	pkg := "github.com/syssam/daogen/compiler/" + filepath.Base(dir)
	require.NoError(t, Generate(context.Background(), everyType(),
		gen.WithTarget(dir),
		gen.WithPackage(pkg),
	))

	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
		Dir:  abs,
	}, ".")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	for _, e := range pkgs[0].Errors {
		t.Error(e)
	}
	require.Equal(t, pkg, pkgs[0].PkgPath)

	scope := pkgs[0].Types.Scope()
	for _, name := range []string{
		"Account", "NewAccount", "AccountFromRow",
		"Interest", "InterestForAccount", "Counter", "NewCounter", "SchemaSQL",
	} {
		require.NotNil(t, scope.Lookup(name), name)
	}
}
