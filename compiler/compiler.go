// Package compiler is the entry point of daogen. It turns a schema into
// Postgres DDL and into the Go data-access code of its tables.
//
//	s := schema.New(
//		schema.NewTable("User", []schema.Field{
//			field.ID("user_id"),
//			field.UniqueString("username"),
//		}),
//	)
//	ddl, err := compiler.EmitDDL(s)
//	...
//	err = compiler.Generate(ctx, s, gen.WithTarget("./dao"))
package compiler

import (
	"context"

	"github.com/syssam/daogen/compiler/gen"
	"github.com/syssam/daogen/compiler/gen/sql"
	"github.com/syssam/daogen/compiler/load"
	sqlschema "github.com/syssam/daogen/dialect/sql/schema"
	"github.com/syssam/daogen/schema"
)

// Extension extends the generation with hooks and options.
type Extension interface {
	// Hooks holds an optional list of hooks wrapping the generation.
	Hooks() []gen.Hook
	// Options holds the configuration options required by the extension.
	Options() []gen.Option
}

// Extensions applies the options and hooks of the given extensions.
func Extensions(extensions ...Extension) gen.Option {
	return func(cfg *gen.Config) error {
		for _, ex := range extensions {
			if err := cfg.Apply(ex.Options()...); err != nil {
				return err
			}
			cfg.Hooks = append(cfg.Hooks, ex.Hooks()...)
		}
		return nil
	}
}

// EmitDDL returns the CREATE TABLE script of s, one statement per table
// in declaration order.
func EmitDDL(s *schema.Schema) (string, error) {
	if s == nil || len(s.Tables) == 0 {
		return "", gen.ErrNoTables
	}
	return sqlschema.DDL(s)
}

// EmitSource returns the data-access code of s as a single formatted Go
// file, followed by the SchemaSQL constant.
func EmitSource(s *schema.Schema, opts ...gen.Option) (string, error) {
	g, err := graph(s, opts)
	if err != nil {
		return "", err
	}
	return sql.Source(g)
}

// Generate writes the data-access code of s into the configured target
// directory.
func Generate(ctx context.Context, s *schema.Schema, opts ...gen.Option) error {
	g, err := graph(s, opts)
	if err != nil {
		return err
	}
	return sql.Generate(ctx, g)
}

// LoadGenerate is like Generate, reading the schema from a YAML
// definition file.
func LoadGenerate(ctx context.Context, path string, opts ...gen.Option) error {
	s, err := load.Load(path)
	if err != nil {
		return err
	}
	return Generate(ctx, s, opts...)
}

func graph(s *schema.Schema, opts []gen.Option) (*gen.Graph, error) {
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return gen.NewGraph(cfg, s)
}
