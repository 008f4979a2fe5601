package field

import (
	"errors"
	"fmt"
	"strconv"
)

// A Type represents a column type. The set is closed.
type Type uint8

// List of column types.
const (
	TypeInvalid Type = iota
	TypeInt
	TypeSerial
	TypeString
	TypeTime
	TypeBytes
	TypeDecimal
	TypeArray
	endTypes
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeInt:     "int",
	TypeSerial:  "serial",
	TypeString:  "string",
	TypeTime:    "time",
	TypeBytes:   "bytes",
	TypeDecimal: "decimal",
	TypeArray:   "array",
}

// String returns the name of the type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type is a known type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Import paths of the non-builtin Go types a column can render to.
const (
	TimePkg    = "time"
	DecimalPkg = "github.com/shopspring/decimal"
)

// Errors reported by TypeInfo.Validate.
var (
	ErrInvalidType   = errors.New("field: invalid type")
	ErrMissingElem   = errors.New("field: array type without element type")
	ErrSerialElem    = errors.New("field: serial cannot be an array element")
	ErrDecimalBounds = errors.New("field: decimal precision/scale out of range")
)

// Postgres accepts up to 1000 digits of precision for NUMERIC/DECIMAL.
const maxDecimalPrecision = 1000

// TypeInfo holds the full information of a column type. Precision and Scale
// are used by TypeDecimal, Elem by TypeArray. Arrays nest to any depth.
type TypeInfo struct {
	Type      Type
	Precision int
	Scale     int
	Elem      *TypeInfo
}

// DecimalOf returns the TypeInfo of a DECIMAL(precision, scale) column.
func DecimalOf(precision, scale int) TypeInfo {
	return TypeInfo{Type: TypeDecimal, Precision: precision, Scale: scale}
}

// ArrayOf returns the TypeInfo of an array whose items are of type elem.
func ArrayOf(elem TypeInfo) TypeInfo {
	return TypeInfo{Type: TypeArray, Elem: &elem}
}

// SQLType returns the Postgres type of the column.
func (t TypeInfo) SQLType() string {
	switch t.Type {
	case TypeInt:
		return "INT"
	case TypeSerial:
		return "SERIAL"
	case TypeString:
		return "TEXT"
	case TypeTime:
		return "TIMESTAMPTZ"
	case TypeBytes:
		return "bytea"
	case TypeDecimal:
		return "DECIMAL(" + strconv.Itoa(t.Precision) + ", " + strconv.Itoa(t.Scale) + ")"
	case TypeArray:
		if t.Elem == nil {
			return "invalid[]"
		}
		return t.Elem.SQLType() + "[]"
	default:
		return "invalid"
	}
}

// GoType returns the Go type a value of the column is held in. Serial
// columns render as *uint32 since the value is absent until inserted.
func (t TypeInfo) GoType() string {
	switch t.Type {
	case TypeInt:
		return "int32"
	case TypeSerial:
		return "*uint32"
	case TypeString:
		return "string"
	case TypeTime:
		return "time.Time"
	case TypeBytes:
		return "[]byte"
	case TypeDecimal:
		return "decimal.Decimal"
	case TypeArray:
		if t.Elem == nil {
			return "[]invalid"
		}
		return "[]" + t.Elem.GoType()
	default:
		return "invalid"
	}
}

// Optional reports if the Go type already carries absence (a pointer)
// without the column being nullable.
func (t TypeInfo) Optional() bool {
	return t.Type == TypeSerial
}

// PkgPaths returns the import paths needed by the Go type, outermost first.
func (t TypeInfo) PkgPaths() []string {
	switch t.Type {
	case TypeTime:
		return []string{TimePkg}
	case TypeDecimal:
		return []string{DecimalPkg}
	case TypeArray:
		if t.Elem != nil {
			return t.Elem.PkgPaths()
		}
	}
	return nil
}

// Equal reports whether t and o describe the same type.
func (t TypeInfo) Equal(o TypeInfo) bool {
	if t.Type != o.Type || t.Precision != o.Precision || t.Scale != o.Scale {
		return false
	}
	if t.Elem == nil || o.Elem == nil {
		return t.Elem == nil && o.Elem == nil
	}
	return t.Elem.Equal(*o.Elem)
}

// String implements fmt.Stringer.
func (t TypeInfo) String() string {
	switch t.Type {
	case TypeDecimal:
		return fmt.Sprintf("decimal(%d,%d)", t.Precision, t.Scale)
	case TypeArray:
		if t.Elem == nil {
			return "array<invalid>"
		}
		return "array<" + t.Elem.String() + ">"
	default:
		return t.Type.String()
	}
}

// Validate reports whether the type can be rendered.
func (t TypeInfo) Validate() error {
	switch {
	case !t.Type.Valid():
		return fmt.Errorf("%w: %d", ErrInvalidType, t.Type)
	case t.Type == TypeDecimal:
		if t.Precision < 1 || t.Precision > maxDecimalPrecision || t.Scale < 0 || t.Scale > t.Precision {
			return fmt.Errorf("%w: DECIMAL(%d, %d)", ErrDecimalBounds, t.Precision, t.Scale)
		}
	case t.Type == TypeArray:
		if t.Elem == nil {
			return ErrMissingElem
		}
		if t.Elem.Type == TypeSerial {
			return ErrSerialElem
		}
		return t.Elem.Validate()
	}
	return nil
}
