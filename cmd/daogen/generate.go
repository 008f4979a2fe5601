package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/syssam/daogen/internal/cli"
)

var (
	genSchema   string
	genTarget   string
	genPackage  string
	genGraphQL  string
	genGQLGen   string
	genSort     bool
	genValidate bool
	genNoConst  bool
	genForce    bool
	genWatch    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate data-access code from schema",
	Long: `Generate one Go file per table plus schema.go into the target directory.

Generation is skipped when the target holds a snapshot equal to the current
schema and settings, unless --force is given.`,
	Example: `  # Generate using config file settings
  daogen generate

  # Generate into internal/dao, ordering tables by their references
  daogen generate --schema schema.yaml --target internal/dao --sort

  # Also export a GraphQL schema
  daogen generate --graphql graph/schema.graphql

  # Export it and bind its types to the generated structs in gqlgen.yml
  daogen generate --graphql graph/schema.graphql --gqlgen gqlgen.yml

  # Regenerate on every schema change
  daogen generate --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.GenerateOptions{
			Schema:      resolveString(genSchema, cfg.Schema),
			Target:      resolveString(genTarget, cfg.Generate.Target),
			Package:     resolveString(genPackage, cfg.Generate.Package),
			Header:      cfg.Generate.Header,
			Sort:        resolveBool(genSort, cfg.Generate.Sort),
			Validate:    resolveBool(genValidate, cfg.Generate.Validate),
			SchemaConst: cfg.Generate.SchemaConst && !genNoConst,
			GraphQL:     resolveString(genGraphQL, cfg.Generate.GraphQL),
			GQLGen:      resolveString(genGQLGen, cfg.Generate.GQLGen),
			Force:       genForce,
			Logger:      logger,
		}
		if opts.Schema == "" {
			return cli.ConfigError("--schema is required", nil)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := runGenerate(ctx, opts); err != nil {
			return err
		}
		if !genWatch {
			return nil
		}
		// Watch runs ignore the snapshot.
		opts.Force = true
		return cli.Watch(ctx, opts.Schema, cli.DefaultDebounce, logger, func() error {
			return runGenerate(ctx, opts)
		})
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genSchema, "schema", "", "path to the schema definition")
	f.StringVar(&genTarget, "target", "", "output directory")
	f.StringVar(&genPackage, "package", "", "package path or name of the generated code")
	f.StringVar(&genGraphQL, "graphql", "", "write a GraphQL schema to this path")
	f.StringVar(&genGQLGen, "gqlgen", "", "record the GraphQL model bindings in this gqlgen.yml")
	f.BoolVar(&genSort, "sort", false, "order tables so referenced tables come first")
	f.BoolVar(&genValidate, "validate", false, "run schema validation before generating")
	f.BoolVar(&genNoConst, "no-schema-const", false, "do not generate the SchemaSQL constant")
	f.BoolVar(&genForce, "force", false, "generate even if the schema is unchanged")
	f.BoolVarP(&genWatch, "watch", "w", false, "regenerate when the schema file changes")
}

func runGenerate(ctx context.Context, opts cli.GenerateOptions) error {
	skipped, err := cli.Generate(ctx, opts)
	if err != nil {
		return err
	}
	if quiet {
		return nil
	}
	if skipped {
		fmt.Println("Schema unchanged, generation skipped.")
		fmt.Println("Use --force to regenerate.")
		return nil
	}
	fmt.Printf("Generated code in %s\n", opts.Target)
	return nil
}
