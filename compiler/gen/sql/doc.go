// Package sql implements the Postgres dialect of the data-access code
// generator.
//
// For every table of the graph it renders a file holding:
//
//   - the table and column name constants
//   - the row struct, one member per column
//   - New<T>, the constructor
//   - InsertSelfIntoTable, which delegates to sqlgraph.InsertNode
//   - <T>FromRow, hydrating a value from a dialect.ColumnGetter
//   - String, used in insert failure messages
//
// schema.go carries the SchemaSQL constant with the CREATE TABLE script.
//
// The package is usually reached through the compiler package:
//
//	graph, err := gen.NewGraph(cfg, s)
//	if err != nil {
//		return err
//	}
//	err = sql.Generate(ctx, graph)
package sql
