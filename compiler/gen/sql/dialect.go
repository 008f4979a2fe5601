package sql

import (
	"context"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/daogen/compiler/gen"
)

// Generate writes the data-access code of the graph to its target
// directory, one file per table plus schema.go.
//
// Hooks registered in g.Config.Hooks wrap the generation, which allows
// extensions such as the GraphQL schema export to run after it.
//
//	err := sql.Generate(ctx, graph)
func Generate(ctx context.Context, g *gen.Graph) error {
	if g.Config == nil || g.Config.Target == "" {
		return gen.NewConfigError("Target", nil, "missing target directory in config")
	}
	base := gen.GenerateFunc(func(g *gen.Graph) error {
		generator := gen.NewJenniferGenerator(g)
		generator.WithDialect(NewDialect(generator))
		return generator.Generate(ctx)
	})
	return g.Config.Wrap(base).Generate(g)
}

// Source renders the data-access code of the graph as a single Go file.
func Source(g *gen.Graph) (string, error) {
	generator := gen.NewJenniferGenerator(g)
	generator.WithDialect(NewDialect(generator))
	return generator.Source()
}

// Dialect implements gen.Dialect for Postgres through database/sql or pgx.
// For every table it renders:
//   - column name constants
//   - the row struct
//   - a constructor taking one value per column
//   - InsertSelfIntoTable, checking composite uniqueness before writing
//   - a FromRow hydration function
//   - a String method used in failure messages
type Dialect struct {
	helper gen.GeneratorHelper
}

// NewDialect creates a new SQL dialect generator.
// The helper parameter should be a *gen.JenniferGenerator.
func NewDialect(helper gen.GeneratorHelper) *Dialect {
	return &Dialect{helper: helper}
}

// Name returns the dialect name.
func (d *Dialect) Name() string {
	return "sql"
}

// GenTable appends the declarations of table t to f.
func (d *Dialect) GenTable(f *jen.File, t *gen.Table) {
	genConstants(f, t)
	genStruct(d.helper, f, t)
	genConstructor(d.helper, f, t)
	genInsert(d.helper, f, t)
	genFromRow(d.helper, f, t)
	genString(f, t)
}

// GenSchema appends the SchemaSQL constant to f.
func (d *Dialect) GenSchema(f *jen.File) {
	g := d.helper.Graph()
	f.Comment("SchemaSQL is the CREATE TABLE script of the schema.")
	f.Const().Id("SchemaSQL").Op("=").Lit(g.DDL)
}

var _ gen.Dialect = (*Dialect)(nil)
