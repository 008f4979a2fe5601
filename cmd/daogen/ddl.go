package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/daogen/compiler"
	sqlschema "github.com/syssam/daogen/dialect/sql/schema"
	"github.com/syssam/daogen/internal/cli"
	"github.com/syssam/daogen/schema"
)

var (
	ddlSchema     string
	ddlFormat     string
	ddlSort       bool
	ddlSchemaName string
)

var ddlCmd = &cobra.Command{
	Use:   "ddl",
	Short: "Print the CREATE TABLE script of the schema",
	Long: `Print the CREATE TABLE script of the schema, one statement per table.

With --format hcl the schema is printed as an Atlas HCL document instead.`,
	Example: `  # Print the SQL script
  daogen ddl --schema schema.yaml

  # Print an Atlas desired state
  daogen ddl --format hcl > schema.hcl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.LoadSchema(resolveString(ddlSchema, cfg.Schema))
		if err != nil {
			return err
		}
		if resolveBool(ddlSort, cfg.Generate.Sort) {
			if s, err = schema.Sorted(s); err != nil {
				return cli.SchemaError("sorting tables", err)
			}
		}
		switch ddlFormat {
		case "sql":
			out, err := compiler.EmitDDL(s)
			if err != nil {
				return cli.SchemaError("rendering DDL", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
		case "hcl":
			out, err := sqlschema.MarshalHCL(s, ddlSchemaName)
			if err != nil {
				return cli.SchemaError("rendering HCL", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
		default:
			return cli.ConfigError(fmt.Sprintf("unknown format %q", ddlFormat), nil)
		}
		return nil
	},
}

func init() {
	f := ddlCmd.Flags()
	f.StringVar(&ddlSchema, "schema", "", "path to the schema definition")
	f.StringVar(&ddlFormat, "format", "sql", "output format: sql or hcl")
	f.BoolVar(&ddlSort, "sort", false, "order tables so referenced tables come first")
	f.StringVar(&ddlSchemaName, "schema-name", sqlschema.DefaultSchemaName, "Postgres schema of the HCL document")
}
