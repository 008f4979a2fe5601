package graphql

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/syssam/daogen/compiler/gen"
)

// DefaultSchemaFilename is the file written in the target directory when no
// schema path is set.
const DefaultSchemaFilename = "schema.graphql"

// SchemaHook is called with the formatted schema before it is written. It
// can modify the schema or perform additional processing on it.
type SchemaHook func(g *gen.Graph, schema string) (string, error)

// Extension implements the compiler.Extension interface for the GraphQL
// schema export.
type Extension struct {
	path        string
	gqlgen      string
	skip        map[string]bool
	scalars     func(*gen.Field) string
	schemaHooks []SchemaHook
	hooks       []gen.Hook
}

// ExtensionOption is a function that configures the Extension.
type ExtensionOption func(*Extension) error

// NewExtension creates a new GraphQL extension with the given options.
func NewExtension(opts ...ExtensionOption) (*Extension, error) {
	ex := &Extension{skip: make(map[string]bool)}
	for _, opt := range opts {
		if err := opt(ex); err != nil {
			return nil, err
		}
	}
	ex.hooks = append(ex.hooks, ex.generateHook())
	return ex, nil
}

// Hooks returns the hooks for code generation.
func (e *Extension) Hooks() []gen.Hook {
	return e.hooks
}

// Options returns the generator options required by the extension.
func (e *Extension) Options() []gen.Option {
	return nil
}

// generateHook returns a hook that writes the schema after the data-access
// code was generated.
func (e *Extension) generateHook() gen.Hook {
	return func(next gen.Generator) gen.Generator {
		return gen.GenerateFunc(func(g *gen.Graph) error {
			if err := next.Generate(g); err != nil {
				return err
			}
			return e.write(g)
		})
	}
}

func (e *Extension) write(g *gen.Graph) error {
	sdl, err := e.Schema(g)
	if err != nil {
		return err
	}
	path := e.path
	switch {
	case path == "":
		path = filepath.Join(g.Target, DefaultSchemaFilename)
	case filepath.Ext(path) != ".graphql":
		path = filepath.Join(path, DefaultSchemaFilename)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("graphql: creating schema directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sdl), 0o644); err != nil {
		return fmt.Errorf("graphql: writing schema: %w", err)
	}
	if g.Logger != nil {
		g.Logger.Info("graphql schema written", "path", path)
	}
	if e.gqlgen != "" {
		return e.writeConfig(g, path)
	}
	return nil
}

// Schema returns the formatted schema of g after running the schema hooks.
func (e *Extension) Schema(g *gen.Graph) (string, error) {
	sdl := Format(e.document(g))
	for _, h := range e.schemaHooks {
		var err error
		if sdl, err = h(g, sdl); err != nil {
			return "", fmt.Errorf("graphql: schema hook: %w", err)
		}
	}
	return sdl, nil
}

// WithSchemaPath sets the output path of the schema. The path can be either
// a directory or a file path:
//   - "graph" -> outputs to graph/schema.graphql
//   - "graph/dao.graphql" -> outputs to graph/dao.graphql
//
// If not set, the schema is written to the generation target directory.
func WithSchemaPath(path string) ExtensionOption {
	return func(e *Extension) error {
		if path == "" {
			return errors.New("graphql: empty schema path")
		}
		e.path = path
		return nil
	}
}

// WithSkip leaves the named tables out of the schema.
func WithSkip(tables ...string) ExtensionOption {
	return func(e *Extension) error {
		for _, t := range tables {
			e.skip[t] = true
		}
		return nil
	}
}

// WithMapScalarFunc sets a function that maps fields to GraphQL scalars.
// Returning an empty string falls back to the default mapping.
func WithMapScalarFunc(fn func(*gen.Field) string) ExtensionOption {
	return func(e *Extension) error {
		e.scalars = fn
		return nil
	}
}

// WithSchemaHook adds hooks that run on the formatted schema, in order.
//
//	graphql.WithSchemaHook(func(g *gen.Graph, schema string) (string, error) {
//		return schema + "\ndirective @auth on FIELD_DEFINITION\n", nil
//	})
func WithSchemaHook(hooks ...SchemaHook) ExtensionOption {
	return func(e *Extension) error {
		e.schemaHooks = append(e.schemaHooks, hooks...)
		return nil
	}
}
