package schema

import (
	"fmt"
	"strings"

	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"

	model "github.com/syssam/daogen/schema"
	"github.com/syssam/daogen/schema/field"
)

// DefaultSchemaName is the Postgres schema tables are placed in when
// converting to Atlas.
const DefaultSchemaName = "public"

// Atlas converts s to an Atlas schema named name. Single-column UNIQUE
// markers become unique indexes named "<table>_<column>_key", the composite
// uniqueness constraint "<table>_<a>_<b>_key", and references become
// foreign keys named "<table>_<column>_fkey", matching the names Postgres
// assigns to the constraints in the emitted DDL.
func Atlas(s *model.Schema, name string) (*schema.Schema, error) {
	if name == "" {
		name = DefaultSchemaName
	}
	var (
		as     = schema.New(name)
		tables = make(map[string]*schema.Table, len(s.Tables))
	)
	for _, t := range s.Tables {
		if err := model.CheckIdentifier("table", t.Name); err != nil {
			return nil, err
		}
		at := schema.NewTable(t.Name)
		for _, f := range t.Fields {
			typ, err := atlasType(f.Info)
			if err != nil {
				return nil, fmt.Errorf("table %q column %q: %w", t.Name, f.Name, err)
			}
			c := schema.NewColumn(f.Name).SetType(typ).SetNull(f.Nullable)
			at.AddColumns(c)
			if f.Unique {
				at.AddIndexes(schema.NewUniqueIndex(t.Name + "_" + f.Name + "_key").AddColumns(c))
			}
		}
		if pk := t.PrimaryKey; pk != "" {
			c, ok := at.Column(pk)
			if !ok {
				return nil, fmt.Errorf("table %q: primary key %q is not a field", t.Name, pk)
			}
			at.SetPrimaryKey(schema.NewPrimaryKey(c))
		}
		if cu := t.CompositeUnique; cu != nil {
			a, ok1 := at.Column(cu.Columns[0])
			b, ok2 := at.Column(cu.Columns[1])
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("table %q: composite uniqueness %v names a missing field", t.Name, cu.Columns)
			}
			at.AddIndexes(schema.NewUniqueIndex(t.Name + "_" + a.Name + "_" + b.Name + "_key").AddColumns(a, b))
		}
		as.AddTables(at)
		tables[t.Name] = at
	}
	for _, t := range s.Tables {
		at := tables[t.Name]
		for _, f := range t.Fields {
			ref := f.Reference
			if ref == nil {
				continue
			}
			rt, ok := tables[ref.Table]
			if !ok {
				return nil, fmt.Errorf("table %q column %q: references missing table %q", t.Name, f.Name, ref.Table)
			}
			rc, ok := rt.Column(ref.Column)
			if !ok {
				return nil, fmt.Errorf("table %q column %q: references missing column %s", t.Name, f.Name, ref)
			}
			c, _ := at.Column(f.Name)
			at.AddForeignKeys(
				schema.NewForeignKey(t.Name + "_" + f.Name + "_fkey").
					AddColumns(c).
					SetRefTable(rt).
					AddRefColumns(rc),
			)
		}
	}
	return as, nil
}

// MarshalHCL converts s to Atlas and encodes it as an Atlas HCL document,
// usable as the desired state of `atlas schema apply`.
func MarshalHCL(s *model.Schema, name string) ([]byte, error) {
	as, err := Atlas(s, name)
	if err != nil {
		return nil, err
	}
	return postgres.MarshalHCL(as)
}

func atlasType(info *field.TypeInfo) (schema.Type, error) {
	if info == nil {
		return nil, fmt.Errorf("missing type")
	}
	if err := info.Validate(); err != nil {
		return nil, err
	}
	switch info.Type {
	case field.TypeInt:
		return &schema.IntegerType{T: postgres.TypeInt}, nil
	case field.TypeSerial:
		return &postgres.SerialType{T: postgres.TypeSerial}, nil
	case field.TypeString:
		return &schema.StringType{T: postgres.TypeText}, nil
	case field.TypeTime:
		return &schema.TimeType{T: postgres.TypeTimestampTZ}, nil
	case field.TypeBytes:
		return &schema.BinaryType{T: postgres.TypeBytea}, nil
	case field.TypeDecimal:
		return &schema.DecimalType{T: postgres.TypeDecimal, Precision: info.Precision, Scale: info.Scale}, nil
	case field.TypeArray:
		// Postgres arrays are flat: the item type plus one [] per dimension.
		elem, dims := info, 0
		for elem.Type == field.TypeArray {
			elem, dims = elem.Elem, dims+1
		}
		et, err := atlasType(elem)
		if err != nil {
			return nil, err
		}
		return &postgres.ArrayType{Type: et, T: strings.ToLower(elem.SQLType()) + strings.Repeat("[]", dims)}, nil
	default:
		return nil, fmt.Errorf("unsupported type %s", info)
	}
}
