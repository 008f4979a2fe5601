package schema

import (
	"fmt"
	"strings"

	model "github.com/syssam/daogen/schema"
	"github.com/syssam/daogen/schema/field"
)

const indent = "    "

// ColumnDef renders the definition of one column:
//
//	<name> <type>[ NOT NULL][ UNIQUE][ REFERENCES <table>(<column>)][ PRIMARY KEY]
func ColumnDef(f *field.Descriptor, primaryKey bool) (string, error) {
	if err := model.CheckIdentifier("column", f.Name); err != nil {
		return "", err
	}
	if f.Err != nil {
		return "", f.Err
	}
	if f.Info == nil {
		return "", fmt.Errorf("dialect/sql/schema: column %q: missing type", f.Name)
	}
	if err := f.Info.Validate(); err != nil {
		return "", fmt.Errorf("dialect/sql/schema: column %q: %w", f.Name, err)
	}
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteByte(' ')
	b.WriteString(f.SQLType())
	if !f.Nullable {
		b.WriteString(" NOT NULL")
	}
	if f.Unique {
		b.WriteString(" UNIQUE")
	}
	if ref := f.Reference; ref != nil {
		if err := model.CheckIdentifier("referenced table", ref.Table); err != nil {
			return "", fmt.Errorf("dialect/sql/schema: column %q: %w", f.Name, err)
		}
		if err := model.CheckIdentifier("referenced column", ref.Column); err != nil {
			return "", fmt.Errorf("dialect/sql/schema: column %q: %w", f.Name, err)
		}
		b.WriteString(" REFERENCES ")
		b.WriteString(ref.String())
	}
	if primaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	return b.String(), nil
}

// TableDDL renders the CREATE TABLE statement of t. Columns keep their
// declared order; a composite uniqueness constraint is appended last.
func TableDDL(t *model.Table) (string, error) {
	if err := model.CheckIdentifier("table", t.Name); err != nil {
		return "", err
	}
	defs := make([]string, 0, len(t.Fields)+1)
	for _, f := range t.Fields {
		def, err := ColumnDef(f, t.PrimaryKey != "" && f.Name == t.PrimaryKey)
		if err != nil {
			return "", fmt.Errorf("table %q: %w", t.Name, err)
		}
		defs = append(defs, def)
	}
	if cu := t.CompositeUnique; cu != nil {
		for _, c := range cu.Columns {
			if err := model.CheckIdentifier("unique column", c); err != nil {
				return "", fmt.Errorf("table %q: %w", t.Name, err)
			}
		}
		defs = append(defs, "UNIQUE ("+cu.Columns[0]+", "+cu.Columns[1]+")")
	}
	return "CREATE TABLE " + t.Name + " (\n" + indent + strings.Join(defs, ",\n"+indent) + "\n);", nil
}

// DDL renders one CREATE TABLE statement per table in schema order,
// separated by a blank line. Tables are not reordered.
func DDL(s *model.Schema) (string, error) {
	stmts := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		stmt, err := TableDDL(t)
		if err != nil {
			return "", err
		}
		stmts = append(stmts, stmt)
	}
	return strings.Join(stmts, "\n\n"), nil
}
