package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/syssam/daogen/schema"
	"github.com/syssam/daogen/schema/field"
)

// Schema is a schema definition as written in a YAML file.
//
//	tables:
//	  - name: User
//	    fields:
//	      - {name: user_id, type: serial, unique: true}
//	      - {name: username, type: string, unique: true}
//	  - join: {table1: User, key1: user_id, table2: Interest, key2: interest_id}
type Schema struct {
	Tables []*Table `yaml:"tables" msgpack:"tables"`
}

// Table is a table definition. A table is either declared by its fields
// or derived from a Join.
type Table struct {
	Name            string   `yaml:"name,omitempty" msgpack:"name"`
	Join            *Join    `yaml:"join,omitempty" msgpack:"join,omitempty"`
	PrimaryKey      string   `yaml:"primary_key,omitempty" msgpack:"primary_key,omitempty"`
	CompositeUnique []string `yaml:"composite_unique,flow,omitempty" msgpack:"composite_unique,omitempty"`
	Fields          []*Field `yaml:"fields,omitempty" msgpack:"fields"`
}

// Join describes a many-to-many association table, see schema.NewJoinTable.
type Join struct {
	Table1 string `yaml:"table1" msgpack:"table1"`
	Key1   string `yaml:"key1" msgpack:"key1"`
	Table2 string `yaml:"table2" msgpack:"table2"`
	Key2   string `yaml:"key2" msgpack:"key2"`
}

// Field is a column definition. References takes the form "Table(column)".
type Field struct {
	Name       string `yaml:"name" msgpack:"name"`
	Type       string `yaml:"type" msgpack:"type"`
	Nullable   bool   `yaml:"nullable,omitempty" msgpack:"nullable,omitempty"`
	Unique     bool   `yaml:"unique,omitempty" msgpack:"unique,omitempty"`
	References string `yaml:"references,omitempty" msgpack:"references,omitempty"`
	Comment    string `yaml:"comment,omitempty" msgpack:"comment,omitempty"`
}

// ErrEmptyDefinition is returned for a definition without tables.
var ErrEmptyDefinition = errors.New("load: no tables defined")

var referenceRe = regexp.MustCompile(`^\s*([^()\s]+)\s*\(\s*([^()\s]+)\s*\)\s*$`)

// Load reads and builds the schema defined in the YAML file at path.
func Load(path string) (*schema.Schema, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: reading schema: %w", err)
	}
	s, err := Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse builds the schema defined in buf.
func Parse(buf []byte) (*schema.Schema, error) {
	def, err := UnmarshalSchema(buf)
	if err != nil {
		return nil, err
	}
	return def.Build()
}

// UnmarshalSchema decodes a YAML definition. Unknown keys are rejected.
func UnmarshalSchema(buf []byte) (*Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	def := &Schema{}
	if err := dec.Decode(def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDefinition
		}
		return nil, fmt.Errorf("load: decoding schema: %w", err)
	}
	if len(def.Tables) == 0 {
		return nil, ErrEmptyDefinition
	}
	return def, nil
}

// Build converts the definition into a schema. Column names and types are
// checked later by the compiler; Build only rejects definitions that have
// no schema counterpart.
func (s *Schema) Build() (*schema.Schema, error) {
	tables := make([]*schema.Table, 0, len(s.Tables))
	for i, t := range s.Tables {
		st, err := t.build()
		if err != nil {
			name := t.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("load: table %s: %w", name, err)
		}
		tables = append(tables, st)
	}
	return schema.New(tables...), nil
}

func (t *Table) build() (*schema.Table, error) {
	if j := t.Join; j != nil {
		if len(t.Fields) > 0 || t.PrimaryKey != "" || len(t.CompositeUnique) > 0 {
			return nil, errors.New("join tables take no fields, primary key or composite unique")
		}
		jt := schema.NewJoinTable(j.Table1, j.Key1, j.Table2, j.Key2)
		if t.Name != "" && t.Name != jt.Name {
			return nil, fmt.Errorf("join table is named %s, not %s", jt.Name, t.Name)
		}
		return jt, nil
	}
	if t.Name == "" {
		return nil, errors.New("missing name")
	}
	fields := make([]schema.Field, 0, len(t.Fields))
	for _, f := range t.Fields {
		b, err := f.builder()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		fields = append(fields, b)
	}
	var opts []schema.TableOption
	if t.PrimaryKey != "" {
		opts = append(opts, schema.WithPrimaryKey(t.PrimaryKey))
	}
	switch len(t.CompositeUnique) {
	case 0:
	case 2:
		opts = append(opts, schema.WithCompositeUnique(t.CompositeUnique[0], t.CompositeUnique[1]))
	default:
		return nil, fmt.Errorf("composite_unique takes two columns, got %d", len(t.CompositeUnique))
	}
	return schema.NewTable(t.Name, fields, opts...), nil
}

func (f *Field) builder() (*field.Builder, error) {
	info, err := ParseType(f.Type)
	if err != nil {
		return nil, err
	}
	b := field.Of(f.Name, info)
	if f.Nullable {
		b.Nillable()
	}
	// serial columns are identities, as with field.ID.
	if f.Unique || info.Type == field.TypeSerial {
		b.Unique()
	}
	if f.References != "" {
		m := referenceRe.FindStringSubmatch(f.References)
		if m == nil {
			return nil, fmt.Errorf("reference %q: want Table(column)", f.References)
		}
		b.References(m[1], m[2])
	}
	if f.Comment != "" {
		b.Comment(f.Comment)
	}
	return b, nil
}

// FromSchema returns the definition of s. Join tables are written out as
// plain tables.
func FromSchema(s *schema.Schema) *Schema {
	def := &Schema{Tables: make([]*Table, 0, len(s.Tables))}
	for _, t := range s.Tables {
		dt := &Table{
			Name:       t.Name,
			PrimaryKey: t.PrimaryKey,
			Fields:     make([]*Field, 0, len(t.Fields)),
		}
		if u := t.CompositeUnique; u != nil {
			dt.CompositeUnique = []string{u.Columns[0], u.Columns[1]}
		}
		for _, f := range t.Fields {
			df := &Field{
				Name:     f.Name,
				Nullable: f.Nullable,
				Unique:   f.Unique,
				Comment:  f.Comment,
			}
			if f.Info != nil {
				df.Type = f.Info.String()
			}
			if r := f.Reference; r != nil {
				df.References = r.String()
			}
			dt.Fields = append(dt.Fields, df)
		}
		def.Tables = append(def.Tables, dt)
	}
	return def
}

// MarshalSchema encodes s as a YAML definition that Parse reads back.
func MarshalSchema(s *schema.Schema) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(FromSchema(s)); err != nil {
		return nil, fmt.Errorf("load: encoding schema: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
