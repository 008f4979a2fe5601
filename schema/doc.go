// Package schema describes a relational data model: tables of typed fields
// with nullability, uniqueness, primary keys and foreign-key references.
//
// A Schema is built once and then read by two independent emitters: the DDL
// emitter in dialect/sql/schema and the Go code generator in compiler/gen.
// Both walk the same values, so a column's SQL type, its Go type and its
// position in the generated insert can never disagree.
//
//	user := schema.NewTable("User", []schema.Field{
//	    field.ID("user_id"),
//	    field.UniqueString("username"),
//	    field.DateTime("date_created"),
//	})
//	interest := schema.NewTable("Interest", []schema.Field{
//	    field.ID("interest_id"),
//	    field.UniqueString("interest_name"),
//	})
//	s := schema.New(user, interest,
//	    schema.NewJoinTable("User", "user_id", "Interest", "interest_id"))
//
// Tables are emitted in the order given. Callers declare referenced tables
// first, or reorder with Sorted.
package schema
