package gen

import (
	"log/slog"

	"github.com/dave/jennifer/jen"
)

// Dialect renders the data-access code of a graph. Each method appends
// declarations to a file created by the generator, so the same dialect
// serves both one-file-per-table output and single-source output.
//
//	generator := gen.NewJenniferGenerator(graph)
//	generator.WithDialect(sql.NewDialect(generator))
//	err := generator.Generate(ctx)
type Dialect interface {
	// Name returns the dialect name (e.g. "sql").
	Name() string
	// GenTable appends the declarations of one table: its struct,
	// constructor, insert method and row hydration function.
	GenTable(f *jen.File, t *Table)
	// GenSchema appends the graph-level declarations, such as the
	// SchemaSQL constant.
	GenSchema(f *jen.File)
}

// GeneratorHelper provides helper methods for dialect implementations.
// JenniferGenerator implements this interface, allowing dialect packages
// to use helper methods without importing the full generator.
type GeneratorHelper interface {
	// NewFile creates a new Jennifer file with the configured header.
	NewFile(pkg string) *jen.File

	// GoType returns the Jennifer code for a field's Go type.
	GoType(f *Field) jen.Code

	// StructTags returns the struct tags for a field.
	StructTags(f *Field) map[string]string

	// DaogenPkg returns the import path of the runtime error types.
	DaogenPkg() string

	// DialectPkg returns the import path of the client contract.
	DialectPkg() string

	// SQLGraphPkg returns the import path of the insert runtime.
	SQLGraphPkg() string

	// Graph returns the schema graph.
	Graph() *Graph

	// Pkg returns the output package name.
	Pkg() string

	// Logger returns the logger of the generation run.
	Logger() *slog.Logger
}
