package sqlgraph

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/daogen"
	"github.com/syssam/daogen/dialect"
)

// UniqueCheck describes the composite uniqueness check issued before an
// insert. Query must select one boolean bound to Values in order.
type UniqueCheck struct {
	Query   string
	Columns [2]string
	Values  [2]any
}

// InsertSpec holds the information for inserting one row.
type InsertSpec struct {
	Table     string
	Unique    *UniqueCheck // nil when the table has no composite uniqueness
	Statement string
	Values    []any
	// Node is the value being inserted. Its fmt rendering is used in the
	// insert failure message.
	Node any
}

// InsertNode runs the uniqueness check of spec, if any, and then the insert
// statement, as two separate round trips.
//
// The check and the insert are not wrapped in a transaction. Two concurrent
// callers inserting the same composite key can both pass the check; the
// second insert then fails on the table's UNIQUE constraint, which is
// reported as the same duplicate outcome. Run InsertNode on a serializable
// transaction (see dialect/sql.Tx) to close the window entirely.
//
// The returned error is nil or a *daogen.InsertError.
func InsertNode(ctx context.Context, client dialect.ExecQuerier, spec *InsertSpec) error {
	if u := spec.Unique; u != nil {
		row, err := client.QueryOne(ctx, u.Query, u.Values[0], u.Values[1])
		if err != nil {
			return daogen.NewInsertFailure(spec.Table, fmt.Sprintf(
				"Unable to query existence of fields %s = %v and %s = %v from table %s: %v",
				u.Columns[0], u.Values[0], u.Columns[1], u.Values[1], spec.Table, err,
			), err)
		}
		var exists bool
		if err := row.Get(0, &exists); err != nil {
			return daogen.NewInsertFailure(spec.Table, fmt.Sprintf(
				"Unable to get row value when checking uniqueness constraint for %s and %s: %v",
				u.Columns[0], u.Columns[1], err,
			), err)
		}
		if exists {
			return duplicate(spec.Table, u)
		}
	}
	if err := client.Exec(ctx, spec.Statement, spec.Values...); err != nil {
		if u := spec.Unique; u != nil && IsUniqueConstraintError(err) && u.violatedBy(spec.Table, err) {
			return duplicate(spec.Table, spec.Unique)
		}
		return daogen.NewInsertFailure(spec.Table, fmt.Sprintf(
			"Unable to insert self: %v into table %s", spec.Node, spec.Table,
		), err)
	}
	return nil
}

func duplicate(table string, u *UniqueCheck) error {
	return daogen.NewConstraintViolation(table, fmt.Sprintf(
		"A row already exists where %s = `%v` and %s = `%v`",
		u.Columns[0], u.Values[0], u.Columns[1], u.Values[1],
	))
}

// violatedBy reports if err names the composite constraint of table. A
// violation of any other UNIQUE column is an insert failure.
func (u *UniqueCheck) violatedBy(table string, err error) bool {
	want := UniqueConstraintName(table, u.Columns[0], u.Columns[1])
	if name := ConstraintName(err); name != "" {
		return strings.EqualFold(name, want)
	}
	return strings.Contains(strings.ToLower(err.Error()), `"`+want+`"`)
}

// maxIdentLen is NAMEDATALEN-1 of a stock Postgres build.
const maxIdentLen = 63

// UniqueConstraintName returns the name Postgres gives the unnamed
// constraint UNIQUE (a, b) on table, e.g.
//
//	interestforuser_user_id_interest_id_key
//
// Unquoted identifiers fold to lower case. Overlong names are shortened the
// way the server does it, trimming the longer of the table and column parts
// one byte at a time.
func UniqueConstraintName(table, a, b string) string {
	name1 := strings.ToLower(table)
	name2 := strings.ToLower(a + "_" + b)
	const label = "key"
	avail := maxIdentLen - len(label) - 2
	n1, n2 := len(name1), len(name2)
	for n1+n2 > avail {
		if n1 > n2 {
			n1--
		} else {
			n2--
		}
	}
	return name1[:n1] + "_" + name2[:n2] + "_" + label
}

// ExistsQuery returns the composite uniqueness check for table.
//
//	SELECT EXISTS (SELECT 1 FROM InterestForUser WHERE user_id = $1 AND interest_id = $2)
func ExistsQuery(table, a, b string) string {
	return "SELECT EXISTS (SELECT 1 FROM " + table + " WHERE " + a + " = $1 AND " + b + " = $2)"
}

// InsertStatement returns a positional insert over columns. Placeholder $i
// binds the i-th column. A table whose columns are all serial gets its
// defaults:
//
//	INSERT INTO User (username, date_created) VALUES ($1, $2)
//	INSERT INTO Counter DEFAULT VALUES
func InsertStatement(table string, columns []string) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	if len(columns) == 0 {
		b.WriteString(" DEFAULT VALUES")
		return b.String()
	}
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES (")
	for i := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("$")
		b.WriteString(strconv.Itoa(i + 1))
	}
	b.WriteString(")")
	return b.String()
}
