package gen

import (
	"go/token"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/daogen/dialect/sql/sqlgraph"
	"github.com/syssam/daogen/schema"
	"github.com/syssam/daogen/schema/field"
)

// The following types and their exported methods are used by the dialect
// generators to render the data-access code.
type (
	// Table represents one generated data-access type and the table it
	// is stored in.
	Table struct {
		def *schema.Table
		// Name holds the table name, used verbatim in SQL.
		Name string
		// TypeName is the name of the generated struct.
		TypeName string
		// Fields holds the fields in declaration order.
		Fields []*Field
		// PrimaryKey is the primary key field, if any.
		PrimaryKey *Field
		// Unique holds the two fields of the composite UNIQUE constraint
		// checked before every insert. Both are nil if there is none.
		Unique [2]*Field
	}

	// Field holds the information of a table column.
	Field struct {
		*field.Descriptor
		table *Table
		// StructField is the exported name of the struct member.
		StructField string
		// Param is the constructor parameter name.
		Param string
	}
)

// NewTable creates a table for the generator from its definition.
func NewTable(def *schema.Table) (*Table, error) {
	if err := schema.CheckIdentifier("table", def.Name); err != nil {
		return nil, NewSchemaError(def.Name, "", "", err)
	}
	t := &Table{
		def:      def,
		Name:     def.Name,
		TypeName: pascal(def.Name),
		Fields:   make([]*Field, 0, len(def.Fields)),
	}
	if !token.IsExported(t.TypeName) {
		return nil, NewSchemaError(def.Name, "", "name does not render to an exported Go identifier", nil)
	}
	var (
		members = make(map[string]string, len(def.Fields))
		params  = make(map[string]string, len(def.Fields))
	)
	for _, d := range def.Fields {
		if d.Err != nil {
			return nil, NewSchemaError(def.Name, d.Name, "", d.Err)
		}
		if err := schema.CheckIdentifier("column", d.Name); err != nil {
			return nil, NewSchemaError(def.Name, d.Name, "", err)
		}
		f := &Field{Descriptor: d, table: t, StructField: pascal(d.Name), Param: param(d.Name)}
		if !token.IsExported(f.StructField) || !token.IsIdentifier(f.Param) {
			return nil, NewSchemaError(def.Name, d.Name, "name does not render to a Go identifier", nil)
		}
		switch f.StructField {
		case "String", "InsertSelfIntoTable":
			return nil, NewSchemaError(def.Name, d.Name, "member "+f.StructField+" collides with a generated method", nil)
		}
		if prev, ok := members[f.StructField]; ok {
			return nil, NewSchemaError(def.Name, d.Name, "member "+f.StructField+" already declared by field "+prev, nil)
		}
		if prev, ok := params[f.Param]; ok {
			return nil, NewSchemaError(def.Name, d.Name, "parameter "+f.Param+" already declared by field "+prev, nil)
		}
		members[f.StructField] = d.Name
		params[f.Param] = d.Name
		t.Fields = append(t.Fields, f)
	}
	if pk := def.PrimaryKey; pk != "" {
		f, ok := t.Field(pk)
		if !ok {
			return nil, NewSchemaError(def.Name, pk, "primary key is not a field of the table", nil)
		}
		t.PrimaryKey = f
	}
	if u := def.CompositeUnique; u != nil {
		for i, name := range u.Columns {
			f, ok := t.Field(name)
			if !ok {
				return nil, NewSchemaError(def.Name, name, "composite unique column is not a field of the table", nil)
			}
			t.Unique[i] = f
		}
	}
	return t, nil
}

// Field returns the field with the given column name.
func (t *Table) Field(name string) (*Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Def returns the table definition.
func (t *Table) Def() *schema.Table { return t.def }

// HasUnique reports if inserts check a composite UNIQUE constraint first.
func (t *Table) HasUnique() bool { return t.Unique[0] != nil }

// Receiver returns the name of the local variable holding a hydrated value.
func (t *Table) Receiver() string { return receiver(t.TypeName) }

// Constructor returns the name of the constructor function.
func (t *Table) Constructor() string { return "New" + t.TypeName }

// FromRowFunc returns the name of the row hydration function.
func (t *Table) FromRowFunc() string { return t.TypeName + "FromRow" }

// TableConst returns the name of the constant holding the table name.
func (t *Table) TableConst() string { return t.TypeName + "Table" }

// Plural returns the plural form of the type name.
func (t *Table) Plural() string { return plural(t.TypeName) }

// FileName returns the name of the generated file of the table. Names
// clashing with schema.go or carrying a build constraint suffix get "_dao"
// appended.
func (t *Table) FileName() string {
	name := snake(t.TypeName)
	if name == "schema" || constrainedSuffix(name) {
		name += "_dao"
	}
	return name + ".go"
}

// InsertFields returns the fields bound by the insert, in declaration order.
func (t *Table) InsertFields() []*Field {
	fields := make([]*Field, 0, len(t.Fields))
	for _, f := range t.Fields {
		if !f.Serial() {
			fields = append(fields, f)
		}
	}
	return fields
}

// InsertColumns returns the column names bound by the insert.
func (t *Table) InsertColumns() []string {
	fields := t.InsertFields()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}
	return columns
}

// InsertStatement returns the parameterized INSERT of the table.
func (t *Table) InsertStatement() string {
	return sqlgraph.InsertStatement(t.Name, t.InsertColumns())
}

// ExistsQuery returns the composite uniqueness check. It is empty if the
// table has no composite UNIQUE constraint.
func (t *Table) ExistsQuery() string {
	if !t.HasUnique() {
		return ""
	}
	return sqlgraph.ExistsQuery(t.Name, t.Unique[0].Name, t.Unique[1].Name)
}

// Table returns the table holding the field.
func (f *Field) Table() *Table { return f.table }

// ColumnConst returns the name of the constant holding the column name.
func (f *Field) ColumnConst() string {
	return f.table.TypeName + "Column" + f.StructField
}

// Type returns the Go type of the struct member.
func (f *Field) Type() *jen.Statement {
	return FieldCode(f.Descriptor)
}

// DocComment returns the doc comment of the struct member.
func (f *Field) DocComment() string {
	if f.Descriptor.Comment != "" {
		return f.Descriptor.Comment
	}
	var b strings.Builder
	b.WriteString(f.StructField)
	b.WriteString(" holds the value of the \"")
	b.WriteString(f.Name)
	b.WriteString("\" column.")
	return b.String()
}

// Go build constraints derived from file names: _test and the known
// GOOS/GOARCH suffixes.
var constrained = map[string]struct{}{
	"test": {}, "aix": {}, "android": {}, "darwin": {}, "dragonfly": {},
	"freebsd": {}, "hurd": {}, "illumos": {}, "ios": {}, "js": {}, "linux": {},
	"nacl": {}, "netbsd": {}, "openbsd": {}, "plan9": {}, "solaris": {},
	"wasip1": {}, "windows": {}, "zos": {}, "386": {}, "amd64": {}, "arm": {},
	"arm64": {}, "loong64": {}, "mips": {}, "mipsle": {}, "mips64": {},
	"mips64le": {}, "ppc64": {}, "ppc64le": {}, "riscv64": {}, "s390x": {},
	"wasm": {},
}

func constrainedSuffix(name string) bool {
	i := strings.LastIndexByte(name, '_')
	if i < 0 {
		return false
	}
	_, ok := constrained[name[i+1:]]
	return ok
}
