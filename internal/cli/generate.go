package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/syssam/daogen/compiler"
	"github.com/syssam/daogen/compiler/gen"
	"github.com/syssam/daogen/compiler/load"
	"github.com/syssam/daogen/contrib/graphql"
	"github.com/syssam/daogen/schema"
)

// GenerateOptions holds the resolved settings of one generation run.
type GenerateOptions struct {
	Schema      string
	Target      string
	Package     string
	Header      string
	Sort        bool
	Validate    bool
	SchemaConst bool
	// GraphQL is the output path of the GraphQL schema. Empty disables
	// the export.
	GraphQL string
	// GQLGen is the path of a gqlgen.yml to record the schema and its model
	// bindings in. Setting it enables the GraphQL export.
	GQLGen string
	// Force regenerates even if the target holds an equal snapshot.
	Force  bool
	Logger *slog.Logger
}

// LoadSchema reads the schema definition at path. Failures are reported
// with the ExitSchema code.
func LoadSchema(path string) (*schema.Schema, error) {
	s, err := load.Load(path)
	if err != nil {
		return nil, SchemaError("loading schema", err)
	}
	return s, nil
}

// Generate runs the code generation described by opts. It returns true if
// the generation was skipped since the target is up to date.
func Generate(ctx context.Context, opts GenerateOptions) (bool, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s, err := LoadSchema(opts.Schema)
	if err != nil {
		return false, err
	}
	genOpts := []gen.Option{
		gen.WithTarget(opts.Target),
		gen.WithPackage(opts.Package),
		gen.WithSort(opts.Sort),
		gen.WithValidation(opts.Validate),
		gen.WithSchemaConst(opts.SchemaConst),
		gen.WithLogger(log),
	}
	if opts.Header != "" {
		genOpts = append(genOpts, gen.WithHeader(opts.Header))
	}
	cfg, err := gen.NewConfig(genOpts...)
	if err != nil {
		return false, ConfigError("generate configuration", err)
	}

	snap := load.NewSnapshot(s, cfg)
	prev, err := load.ReadSnapshot(opts.Target)
	if err == nil && !opts.Force && snap.Equal(prev) {
		log.Info("schema unchanged, generation skipped", "target", opts.Target)
		return true, nil
	}
	if err == nil {
		log.Info("schema changed", "tables", snap.Changed(prev))
	}
	genOpts = append(genOpts, gen.WithHooks(load.SnapshotHook(snap)))
	if opts.GraphQL != "" || opts.GQLGen != "" {
		var exOpts []graphql.ExtensionOption
		if opts.GraphQL != "" {
			exOpts = append(exOpts, graphql.WithSchemaPath(opts.GraphQL))
		}
		if opts.GQLGen != "" {
			exOpts = append(exOpts, graphql.WithConfigPath(opts.GQLGen))
		}
		ex, err := graphql.NewExtension(exOpts...)
		if err != nil {
			return false, ConfigError("graphql extension", err)
		}
		genOpts = append(genOpts, compiler.Extensions(ex))
	}
	if err := compiler.Generate(ctx, s, genOpts...); err != nil {
		return false, classify(err)
	}
	return false, nil
}

// classify maps a compiler error to an exit error.
func classify(err error) error {
	switch {
	case errors.Is(err, gen.ErrInvalidSchema),
		errors.Is(err, gen.ErrValidationFailed),
		errors.Is(err, gen.ErrNoTables),
		errors.Is(err, schema.ErrInvalidIdentifier),
		errors.Is(err, schema.ErrCycle):
		return SchemaError("schema error", err)
	case gen.IsConfigError(err):
		return ConfigError("generate configuration", err)
	default:
		return GeneralError("generation failed", err)
	}
}
