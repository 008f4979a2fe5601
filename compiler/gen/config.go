package gen

import (
	"log/slog"
	"path"
	"runtime"
)

// DefaultHeader is the comment placed at the top of every generated file.
const DefaultHeader = "Code generated by daogen. DO NOT EDIT."

// DefaultPackage is the package name of the generated code.
const DefaultPackage = "dao"

// Config holds the global configuration of a generation run.
type Config struct {
	// Target is the directory generated files are written to. Only
	// Generate needs it; Source renders in memory.
	Target string

	// Package is the import path (or name) of the generated package. The
	// package clause uses its last element.
	Package string

	// Header is the file header comment, without the leading slashes.
	Header string

	// Logger receives diagnostics such as validation warnings. It
	// defaults to a logger that discards everything.
	Logger *slog.Logger

	// Validate runs the structural schema checks before rendering and
	// fails on errors. Warnings are logged.
	Validate bool

	// SchemaConst controls the SchemaSQL constant holding the DDL.
	SchemaConst bool

	// Sort orders tables so referenced tables precede referencing ones.
	// Off by default: declaration order is emission order.
	Sort bool

	// Workers bounds the number of files rendered concurrently.
	Workers int

	// Hooks wrap the generator, the first one outermost.
	Hooks []Hook
}

// defaults returns a config with all defaults set.
func defaults() *Config {
	return &Config{
		Package:     DefaultPackage,
		Header:      DefaultHeader,
		Logger:      slog.New(slog.DiscardHandler),
		SchemaConst: true,
		Workers:     runtime.GOMAXPROCS(0),
	}
}

// PackageName returns the package clause name of the generated code.
func (c *Config) PackageName() string {
	if c.Package == "" {
		return DefaultPackage
	}
	return path.Base(c.Package)
}

// logger returns the configured logger or a discarding one.
func (c *Config) logger() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

type (
	// Generator is the interface that wraps the Generate method.
	Generator interface {
		// Generate generates the artifacts for the given graph.
		Generate(*Graph) error
	}

	// GenerateFunc is an adapter to allow the use of ordinary functions
	// as Generator.
	GenerateFunc func(*Graph) error

	// Hook defines the "generate middleware". A function that gets a
	// Generator and returns a Generator. Extensions such as the GraphQL
	// schema export run through hooks.
	//
	//	hook := func(next gen.Generator) gen.Generator {
	//		return gen.GenerateFunc(func(g *gen.Graph) error {
	//			if err := next.Generate(g); err != nil {
	//				return err
	//			}
	//			return writeExtra(g)
	//		})
	//	}
	Hook func(Generator) Generator
)

// Generate calls f(g).
func (f GenerateFunc) Generate(g *Graph) error {
	return f(g)
}

// Wrap applies the configured hooks to next, the first hook being the
// outermost.
func (c *Config) Wrap(next Generator) Generator {
	for i := len(c.Hooks) - 1; i >= 0; i-- {
		next = c.Hooks[i](next)
	}
	return next
}
