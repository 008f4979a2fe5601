package field

import (
	"errors"
	"fmt"
)

// Reference names the column a foreign key points to.
type Reference struct {
	Table  string
	Column string
}

// String returns the reference in "table(column)" form.
func (r Reference) String() string {
	return r.Table + "(" + r.Column + ")"
}

// A Descriptor for field configuration.
type Descriptor struct {
	Name      string     // column name.
	Info      *TypeInfo  // column type.
	Nullable  bool       // column may hold NULL; Go type is a pointer.
	Unique    bool       // single-column UNIQUE constraint.
	Reference *Reference // foreign key target, if any.
	Comment   string     // comment rendered on the generated struct member.
	Err       error
}

// Serial reports if the field is store-assigned and left out of inserts.
func (d *Descriptor) Serial() bool {
	return d.Info != nil && d.Info.Type == TypeSerial
}

// SQLType returns the Postgres type of the column.
func (d *Descriptor) SQLType() string {
	return d.Info.SQLType()
}

// GoType returns the Go type of the struct member, wrapping nullable
// columns in a pointer. Serial columns are already optional.
func (d *Descriptor) GoType() string {
	t := d.Info.GoType()
	if d.Nullable && !d.Info.Optional() {
		return "*" + t
	}
	return t
}

// Pointer reports if the Go type of the member is a pointer.
func (d *Descriptor) Pointer() bool {
	return d.Info.Optional() || d.Nullable
}

// Builder is the builder for all field types.
type Builder struct {
	desc *Descriptor
}

// Of returns a new Field with the given name and type.
func Of(name string, info TypeInfo) *Builder {
	b := &Builder{desc: &Descriptor{Name: name, Info: &info}}
	if err := info.Validate(); err != nil {
		b.desc.Err = fmt.Errorf("field %q: %w", name, err)
	}
	if name == "" {
		b.desc.Err = errors.Join(b.desc.Err, errors.New("field: missing name"))
	}
	return b
}

// ID returns a new auto-incrementing identity field. It is NOT NULL and
// UNIQUE, and is never part of an insert.
//
//	field.ID("user_id") // user_id SERIAL NOT NULL UNIQUE
func ID(name string) *Builder {
	return Of(name, TypeInfo{Type: TypeSerial}).Unique()
}

// Int returns a new 32-bit integer field.
func Int(name string) *Builder {
	return Of(name, TypeInfo{Type: TypeInt})
}

// String returns a new variable-length text field.
func String(name string) *Builder {
	return Of(name, TypeInfo{Type: TypeString})
}

// UniqueString returns a new text field with a UNIQUE constraint.
func UniqueString(name string) *Builder {
	return String(name).Unique()
}

// DateTime returns a new timezone-aware timestamp field.
func DateTime(name string) *Builder {
	return Of(name, TypeInfo{Type: TypeTime})
}

// Bytes returns a new binary field.
func Bytes(name string) *Builder {
	return Of(name, TypeInfo{Type: TypeBytes})
}

// Decimal returns a new fixed-point field with the given total digits and
// digits after the decimal point.
func Decimal(name string, precision, scale int) *Builder {
	return Of(name, DecimalOf(precision, scale))
}

// Geospatial returns a new coordinate field, DECIMAL(9, 6).
func Geospatial(name string) *Builder {
	return Decimal(name, 9, 6)
}

// Strings returns a new text array field.
func Strings(name string) *Builder {
	return Array(name, TypeInfo{Type: TypeString})
}

// Array returns a new array field with items of the given type.
//
//	field.Array("grid", field.ArrayOf(field.TypeInfo{Type: field.TypeInt})) // INT[][]
func Array(name string, elem TypeInfo) *Builder {
	return Of(name, ArrayOf(elem))
}

// Nillable allows NULL values for the column. The Go member becomes a pointer.
func (b *Builder) Nillable() *Builder {
	b.desc.Nullable = true
	return b
}

// Unique adds a single-column UNIQUE constraint.
func (b *Builder) Unique() *Builder {
	b.desc.Unique = true
	return b
}

// References marks the field as a foreign key to table(column).
func (b *Builder) References(table, column string) *Builder {
	if table == "" || column == "" {
		b.desc.Err = errors.Join(b.desc.Err, fmt.Errorf("field %q: empty reference %q(%q)", b.desc.Name, table, column))
	}
	b.desc.Reference = &Reference{Table: table, Column: column}
	return b
}

// Comment sets the comment of the generated struct member.
func (b *Builder) Comment(c string) *Builder {
	b.desc.Comment = c
	return b
}

// Descriptor implements the schema.Field interface by returning its descriptor.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}
