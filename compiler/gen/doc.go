// Package gen prepares a schema for code generation and drives the
// dialect that renders it.
//
// The pipeline:
//
//	schema.Schema (tables, fields, constraints)
//	        ↓
//	   NewGraph (naming, collision checks, optional sort and validation)
//	        ↓
//	   Dialect (per-table declarations, jennifer)
//	        ↓
//	   JenniferGenerator (parallel render, goimports formatting, write)
//
// Names follow Go conventions: columns become PascalCase members with
// common initialisms upper cased (user_id => UserID), constructor
// parameters are camelCase, and each table is written to its snake_case
// file. Generated code depends only on the runtime packages daogen,
// dialect and dialect/sql/sqlgraph.
package gen
