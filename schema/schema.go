package schema

import (
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/syssam/daogen/schema/field"
)

// Field is the interface implemented by the field builders.
type Field interface {
	Descriptor() *field.Descriptor
}

// CompositeUnique is a UNIQUE constraint over two columns jointly.
type CompositeUnique struct {
	Columns [2]string
}

// Table is a named, ordered set of fields. Field order fixes both the
// column order of the CREATE TABLE statement and the placeholder order of
// the generated insert.
type Table struct {
	Name            string
	Fields          []*field.Descriptor
	CompositeUnique *CompositeUnique
	PrimaryKey      string
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithPrimaryKey marks the named field as the table's primary key.
func WithPrimaryKey(name string) TableOption {
	return func(t *Table) {
		t.PrimaryKey = name
	}
}

// WithCompositeUnique adds a UNIQUE (a, b) constraint to the table. The
// generated insert checks it before writing.
func WithCompositeUnique(a, b string) TableOption {
	return func(t *Table) {
		t.CompositeUnique = &CompositeUnique{Columns: [2]string{a, b}}
	}
}

// NewTable returns a table with the given fields in declaration order.
//
//	schema.NewTable("User", []schema.Field{
//		field.ID("user_id"),
//		field.UniqueString("username"),
//		field.DateTime("date_created"),
//	})
func NewTable(name string, fields []Field, opts ...TableOption) *Table {
	t := &Table{Name: name, Fields: make([]*field.Descriptor, 0, len(fields))}
	for _, f := range fields {
		t.Fields = append(t.Fields, f.Descriptor())
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewJoinTable derives the many-to-many association table between
// table1(key1) and table2(key2). The table is named "{table2}For{table1}"
// and holds two non-null integer foreign keys, jointly unique, with no
// primary key.
func NewJoinTable(table1, key1, table2, key2 string) *Table {
	return NewTable(
		table2+"For"+table1,
		[]Field{
			field.Int(key1).References(table1, key1),
			field.Int(key2).References(table2, key2),
		},
		WithCompositeUnique(key1, key2),
	)
}

// Field returns the field with the given name.
func (t *Table) Field(name string) (*field.Descriptor, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// InsertFields returns the fields bound by an insert, in declaration order.
// Serial fields are assigned by the store and left out.
func (t *Table) InsertFields() []*field.Descriptor {
	fields := make([]*field.Descriptor, 0, len(t.Fields))
	for _, f := range t.Fields {
		if !f.Serial() {
			fields = append(fields, f)
		}
	}
	return fields
}

// Err returns the errors recorded by the field builders of the table.
func (t *Table) Err() error {
	var errs []error
	for _, f := range t.Fields {
		if f.Err != nil {
			errs = append(errs, fmt.Errorf("table %q: %w", t.Name, f.Err))
		}
	}
	return errors.Join(errs...)
}

// Schema is an ordered collection of tables. Table order is emission order.
type Schema struct {
	Tables []*Table
}

// New returns a schema holding the given tables in order.
func New(tables ...*Table) *Schema {
	return &Schema{Tables: tables}
}

// Table returns the table with the given name.
func (s *Schema) Table(name string) (*Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Err returns the builder errors of all tables.
func (s *Schema) Err() error {
	var errs []error
	for _, t := range s.Tables {
		if err := t.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ErrInvalidIdentifier is returned for table or column names that cannot be
// emitted unquoted.
var ErrInvalidIdentifier = errors.New("schema: invalid identifier")

// Postgres truncates identifiers longer than NAMEDATALEN-1 bytes.
const maxIdentifierLen = 63

var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidIdentifier reports if s can be used as an unquoted identifier in
// both the DDL and the generated Go code.
func ValidIdentifier(s string) bool {
	return s != "" && len(s) <= maxIdentifierLen && identifierRe.MatchString(s)
}

// CheckIdentifier returns an ErrInvalidIdentifier-wrapping error if name is
// not a valid identifier. kind names the object in the message.
func CheckIdentifier(kind, name string) error {
	if !ValidIdentifier(name) {
		return fmt.Errorf("%w: %s %q", ErrInvalidIdentifier, kind, name)
	}
	return nil
}

// ErrCycle is returned by Sorted when foreign keys form a cycle.
var ErrCycle = errors.New("schema: foreign key cycle")

// Sorted returns a copy of s whose tables are ordered so that every
// referenced table precedes the tables referencing it. Ties keep their
// original order. References to tables outside s and self references are
// ignored.
func Sorted(s *Schema) (*Schema, error) {
	index := make(map[string]int, len(s.Tables))
	for i, t := range s.Tables {
		index[t.Name] = i
	}
	deps := make([][]int, len(s.Tables))
	for i, t := range s.Tables {
		for _, f := range t.Fields {
			if f.Reference == nil {
				continue
			}
			j, ok := index[f.Reference.Table]
			if !ok || j == i || slices.Contains(deps[i], j) {
				continue
			}
			deps[i] = append(deps[i], j)
		}
	}
	var (
		sorted = make([]*Table, 0, len(s.Tables))
		done   = make([]bool, len(s.Tables))
		ready  = func(i int) bool {
			return !slices.ContainsFunc(deps[i], func(j int) bool { return !done[j] })
		}
	)
	for len(sorted) < len(s.Tables) {
		progressed := false
		for i, t := range s.Tables {
			if done[i] || !ready(i) {
				continue
			}
			sorted = append(sorted, t)
			done[i] = true
			progressed = true
			break
		}
		if !progressed {
			var stuck []string
			for i, t := range s.Tables {
				if !done[i] {
					stuck = append(stuck, t.Name)
				}
			}
			return nil, fmt.Errorf("%w between tables %v", ErrCycle, stuck)
		}
	}
	return &Schema{Tables: sorted}, nil
}
