// Package graphql exports the generated data-access types as a GraphQL
// schema (SDL), one object type per table, so that a gqlgen server can bind
// its models to them.
//
// The extension runs as a generation hook after the Go files are written:
//
//	ex, err := graphql.NewExtension(
//		graphql.WithSchemaPath("./dao/schema.graphql"),
//		graphql.WithSkip("InterestForUser"),
//	)
//	if err != nil {
//		log.Fatalf("creating graphql extension: %v", err)
//	}
//	err = compiler.Generate(ctx, s,
//		gen.WithTarget("./dao"),
//		compiler.Extensions(ex),
//	)
//
// Column types map to GraphQL as follows:
//
//	serial  ID
//	int     Int
//	string  String
//	time    Time (custom scalar)
//	bytes   Bytes (custom scalar)
//	decimal Decimal (custom scalar)
//	array   [T!]
//
// Fields are non-null unless the Go member is a pointer.
//
// WithConfigPath("./gqlgen.yml") also adds the schema and the model
// bindings to the gqlgen config, keeping whatever the file already holds.
package graphql
