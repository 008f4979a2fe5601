package main

import (
	"fmt"

	"github.com/spf13/cobra"

	sqlschema "github.com/syssam/daogen/dialect/sql/schema"
	"github.com/syssam/daogen/internal/cli"
)

var validateSchema string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the schema",
	Long: `Check identifiers, primary keys, composite uniqueness and references.

Errors make the command fail. Warnings, such as reserved column names or
references to tables declared later, are only reported.`,
	Example: `  # Validate a specific schema file
  daogen validate --schema schema.yaml

  # Validate using config file settings
  daogen validate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.LoadSchema(resolveString(validateSchema, cfg.Schema))
		if err != nil {
			return err
		}
		result := sqlschema.Validate(s)
		for _, w := range result.Warnings {
			logger.Warn("schema warning", "table", w.Table, "column", w.Column, "message", w.Message)
		}
		if result.HasErrors() {
			fmt.Fprint(cmd.ErrOrStderr(), result.String())
			return cli.SchemaError("schema is invalid", result.Err())
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Schema is valid. Found %d tables:\n", len(s.Tables))
			for _, t := range s.Tables {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s (%d columns)\n", t.Name, len(t.Fields))
			}
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "path to the schema definition")
}
