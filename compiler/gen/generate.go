package gen

import (
	"context"
	"log/slog"
	"os"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
)

// SchemaFile is the name of the file holding graph-level declarations.
const SchemaFile = "schema.go"

// Import paths of the runtime packages referenced by generated code.
const (
	daogenPkg   = "github.com/syssam/daogen"
	dialectPkg  = "github.com/syssam/daogen/dialect"
	sqlgraphPkg = "github.com/syssam/daogen/dialect/sql/sqlgraph"
)

// JenniferGenerator generates data-access code with Jennifer. Files are
// rendered in parallel; the content of each file depends only on its
// table, so the output is deterministic.
type JenniferGenerator struct {
	graph   *Graph
	workers int
	pkg     string
	dialect Dialect
	w       *writer
}

// NewJenniferGenerator creates a new Jennifer-based generator.
// You must call WithDialect() to set a dialect before generating.
//
// Example:
//
//	import "github.com/syssam/daogen/compiler/gen/sql"
//
//	generator := gen.NewJenniferGenerator(graph)
//	generator.WithDialect(sql.NewDialect(generator))
//	err := generator.Generate(ctx)
func NewJenniferGenerator(g *Graph) *JenniferGenerator {
	c := g.Config
	if c == nil {
		c = defaults()
		g.Config = c
	}
	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	return &JenniferGenerator{
		graph:   g,
		workers: workers,
		pkg:     c.PackageName(),
		w:       &writer{outDir: c.Target},
	}
}

// WithWorkers sets the number of parallel workers.
func (g *JenniferGenerator) WithWorkers(n int) *JenniferGenerator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// WithPackage sets the output package name.
func (g *JenniferGenerator) WithPackage(pkg string) *JenniferGenerator {
	if pkg != "" {
		g.pkg = pkg
	}
	return g
}

// WithDialect sets the dialect rendering the tables.
func (g *JenniferGenerator) WithDialect(d Dialect) *JenniferGenerator {
	if d != nil {
		g.dialect = d
	}
	return g
}

// Metrics returns the generation metrics.
func (g *JenniferGenerator) Metrics() WriterMetrics {
	return g.w.snapshot()
}

// Render renders one file per table, plus the schema file when the
// SchemaSQL constant is enabled. Files are returned in table order.
func (g *JenniferGenerator) Render(ctx context.Context) ([]*File, error) {
	if g.dialect == nil {
		return nil, NewConfigError("Dialect", nil, "no dialect set: call WithDialect() before generating")
	}
	n := len(g.graph.Tables)
	if g.graph.SchemaConst {
		n++
	}
	files := make([]*File, n)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, t := range g.graph.Tables {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f := g.NewFile(g.pkg)
			g.dialect.GenTable(f, t)
			out, err := g.w.render(t.FileName(), f)
			files[i] = out
			return err
		})
	}
	if g.graph.SchemaConst {
		eg.Go(func() error {
			f := g.NewFile(g.pkg)
			g.dialect.GenSchema(f)
			out, err := g.w.render(SchemaFile, f)
			files[n-1] = out
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// Generate renders all files and writes them to the target directory.
func (g *JenniferGenerator) Generate(ctx context.Context) error {
	if g.graph.Target == "" {
		return NewConfigError("Target", nil, "missing target directory in config")
	}
	if err := os.MkdirAll(g.graph.Target, 0o755); err != nil {
		return NewGenerationError("write", g.graph.Target, "create target directory", err)
	}
	files, err := g.Render(ctx)
	if err != nil {
		return err
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for _, f := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := g.w.write(f); err != nil {
				return err
			}
			g.Logger().Debug("file written", "file", f.Name, "bytes", len(f.Content))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	m := g.Metrics()
	g.Logger().Info("code generated", "dir", g.graph.Target, "files", m.FilesGenerated, "bytes", m.TotalBytes)
	return nil
}

// Source renders the whole graph into a single Go source file: the tables
// in order, followed by the schema declarations.
func (g *JenniferGenerator) Source() (string, error) {
	if g.dialect == nil {
		return "", NewConfigError("Dialect", nil, "no dialect set: call WithDialect() before generating")
	}
	f := g.NewFile(g.pkg)
	for _, t := range g.graph.Tables {
		g.dialect.GenTable(f, t)
	}
	if g.graph.SchemaConst {
		g.dialect.GenSchema(f)
	}
	out, err := g.w.render(g.pkg+".go", f)
	if err != nil {
		return "", err
	}
	return string(out.Content), nil
}

// NewFile creates a new Jennifer file with the configured header comment.
func (g *JenniferGenerator) NewFile(pkg string) *jen.File {
	f := jen.NewFile(pkg)
	if h := g.graph.Header; h != "" {
		f.HeaderComment(h)
	}
	return f
}

// GoType returns the Jennifer code for a field's Go type.
func (g *JenniferGenerator) GoType(f *Field) jen.Code {
	return f.Type()
}

// StructTags returns the struct tags for a field.
func (g *JenniferGenerator) StructTags(f *Field) map[string]string {
	tag := f.Name
	if f.Pointer() {
		tag += ",omitempty"
	}
	return map[string]string{"json": tag}
}

// DaogenPkg returns the import path of the runtime error types.
func (g *JenniferGenerator) DaogenPkg() string { return daogenPkg }

// DialectPkg returns the import path of the client contract.
func (g *JenniferGenerator) DialectPkg() string { return dialectPkg }

// SQLGraphPkg returns the import path of the insert runtime.
func (g *JenniferGenerator) SQLGraphPkg() string { return sqlgraphPkg }

// Graph returns the schema graph.
func (g *JenniferGenerator) Graph() *Graph { return g.graph }

// Pkg returns the output package name.
func (g *JenniferGenerator) Pkg() string { return g.pkg }

// Logger returns the logger of the generation run.
func (g *JenniferGenerator) Logger() *slog.Logger { return g.graph.logger() }

var _ GeneratorHelper = (*JenniferGenerator)(nil)
