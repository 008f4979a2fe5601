package gen

import (
	"fmt"

	sqlschema "github.com/syssam/daogen/dialect/sql/schema"
	"github.com/syssam/daogen/schema"
)

// Graph holds the tables of a schema prepared for code generation.
type Graph struct {
	*Config
	// Schema is the schema the tables were built from, after sorting.
	Schema *schema.Schema
	// Tables in emission order.
	Tables []*Table
	// DDL is the CREATE TABLE script of the schema.
	DDL string
}

// NewGraph creates a new Graph for the schema. It fails on schemas whose
// generated code would not compile: malformed identifiers, fields missing
// from a key or a constraint, and colliding Go names.
func NewGraph(c *Config, s *schema.Schema) (*Graph, error) {
	if c == nil {
		c = defaults()
	}
	if s == nil || len(s.Tables) == 0 {
		return nil, ErrNoTables
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	log := c.logger()
	if c.Sort {
		sorted, err := schema.Sorted(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
		}
		s = sorted
	}
	if c.Validate {
		res := sqlschema.Validate(s)
		for _, w := range res.Warnings {
			log.Warn("schema warning", "table", w.Table, "column", w.Column, "message", w.Message)
		}
		if err := res.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}
	}
	g := &Graph{Config: c, Schema: s, Tables: make([]*Table, 0, len(s.Tables))}
	names := make(map[string]string)
	declare := func(ident, table string) error {
		if prev, ok := names[ident]; ok {
			return NewSchemaError(table, "", fmt.Sprintf("identifier %s already declared by table %s", ident, prev), nil)
		}
		names[ident] = table
		return nil
	}
	if c.SchemaConst {
		names["SchemaSQL"] = "schema"
	}
	files := make(map[string]string)
	for _, def := range s.Tables {
		t, err := NewTable(def)
		if err != nil {
			return nil, err
		}
		idents := []string{t.TypeName, t.Constructor(), t.FromRowFunc(), t.TableConst()}
		for _, f := range t.Fields {
			idents = append(idents, f.ColumnConst())
		}
		for _, ident := range idents {
			if err := declare(ident, t.Name); err != nil {
				return nil, err
			}
		}
		if prev, ok := files[t.FileName()]; ok {
			return nil, NewSchemaError(t.Name, "", fmt.Sprintf("file %s already generated for table %s", t.FileName(), prev), nil)
		}
		files[t.FileName()] = t.Name
		g.Tables = append(g.Tables, t)
		log.Debug("table prepared", "table", t.Name, "type", t.TypeName, "fields", len(t.Fields))
	}
	ddl, err := sqlschema.DDL(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	g.DDL = ddl
	return g, nil
}

// Table returns the table with the given name.
func (g *Graph) Table(name string) (*Table, bool) {
	for _, t := range g.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}
