// Package schema renders a schema description to Postgres DDL.
//
// DDL emits one CREATE TABLE statement per table, in declaration order,
// separated by blank lines:
//
//	CREATE TABLE InterestForUser (
//	    user_id INT NOT NULL REFERENCES User(user_id),
//	    interest_id INT NOT NULL REFERENCES Interest(interest_id),
//	    UNIQUE (user_id, interest_id)
//	);
//
// The emitter only rejects identifiers it cannot emit unquoted. Validate
// reports the remaining structural problems (missing primary key fields,
// dangling references, reserved words) without changing the output.
//
// Atlas and MarshalHCL convert the same description to an Atlas schema,
// for use with Atlas tooling.
package schema
