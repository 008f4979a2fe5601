package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/daogen/internal/cli"
	"github.com/syssam/daogen/schema"
)

var (
	applyDB     string
	applyDriver string
	applySchema string
	applySort   bool
	applyDryRun bool
	applyPath   string
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Create the schema tables in a database",
	Long: `Execute the CREATE TABLE statements of the schema against a Postgres
database, in schema order.`,
	Example: `  # Create the tables
  daogen apply --db postgres://localhost/mydb

  # Use pgx instead of database/sql
  daogen apply --db postgres://localhost/mydb --driver pgx

  # Create the tables in the "tenant" schema
  daogen apply --db postgres://localhost/mydb --search-path tenant

  # Print the statements without executing them
  daogen apply --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.LoadSchema(resolveString(applySchema, cfg.Schema))
		if err != nil {
			return err
		}
		if resolveBool(applySort, cfg.Generate.Sort) {
			if s, err = schema.Sorted(s); err != nil {
				return cli.SchemaError("sorting tables", err)
			}
		}
		if applyDryRun {
			if !quiet {
				fmt.Fprintln(os.Stderr, "-- Dry-run mode: SQL will be output but not applied")
				fmt.Fprintln(os.Stderr, "")
			}
			return cli.DryRun(cmd.OutOrStdout(), s)
		}

		dsn, err := resolveDSN(applyDB)
		if err != nil {
			return err
		}
		ctx := cli.WithSearchPath(cmd.Context(), resolveString(applyPath, cfg.Database.SearchPath))
		client, closeFn, err := cli.Open(ctx, resolveString(applyDriver, cfg.Database.Driver), dsn)
		if err != nil {
			return err
		}
		defer func() { _ = closeFn() }()

		if err := cli.Apply(ctx, client, s, logger); err != nil {
			return err
		}
		if !quiet {
			fmt.Printf("Created %d tables.\n", len(s.Tables))
		}
		return nil
	},
}

func init() {
	f := applyCmd.Flags()
	f.StringVar(&applyDB, "db", "", "database URL")
	f.StringVar(&applyDriver, "driver", "", "database driver: postgres or pgx")
	f.StringVar(&applySchema, "schema", "", "path to the schema definition")
	f.BoolVar(&applySort, "sort", false, "order tables so referenced tables come first")
	f.BoolVar(&applyDryRun, "dry-run", false, "output SQL without applying")
	f.StringVar(&applyPath, "search-path", "", "comma-separated schemas to create the tables in")
}

// resolveDSN gets the database DSN from flag or config.
func resolveDSN(flagDSN string) (string, error) {
	if flagDSN != "" {
		return flagDSN, nil
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return "", cli.ConfigError("database configuration", err)
	}
	return dsn, nil
}
