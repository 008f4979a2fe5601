// Command daogen generates Postgres data-access code from a YAML schema.
//
// Usage:
//
//	daogen [flags] <command>
//
// Commands that only read the schema (generate, ddl, validate) do not need
// database access. The apply command connects with --db or the database
// section of daogen.yaml.
package main

func main() {
	Execute()
}
