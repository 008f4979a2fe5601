package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/daogen/schema/field"
)

// TypeCode renders the Go type of a column type. It follows
// field.TypeInfo.GoType token by token, with qualified imports for time
// and decimal values.
func TypeCode(info field.TypeInfo) *jen.Statement {
	return appendType(&jen.Statement{}, info)
}

// FieldCode renders the Go type of a struct member, a pointer when the
// column is nullable. Serial columns are never wrapped twice.
func FieldCode(d *field.Descriptor) *jen.Statement {
	if d.Nullable && !d.Info.Optional() {
		return appendType(jen.Op("*"), *d.Info)
	}
	return TypeCode(*d.Info)
}

// appendType chains the tokens of info to s, keeping one flat statement
// so pointers and slices render without separators.
func appendType(s *jen.Statement, info field.TypeInfo) *jen.Statement {
	switch info.Type {
	case field.TypeInt:
		return s.Int32()
	case field.TypeSerial:
		return s.Op("*").Uint32()
	case field.TypeString:
		return s.String()
	case field.TypeTime:
		return s.Qual(field.TimePkg, "Time")
	case field.TypeBytes:
		return s.Index().Byte()
	case field.TypeDecimal:
		return s.Qual(field.DecimalPkg, "Decimal")
	case field.TypeArray:
		if info.Elem != nil {
			return appendType(s.Index(), *info.Elem)
		}
	}
	return s.Id("invalid")
}
