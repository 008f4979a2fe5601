package load

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/daogen/schema/field"
)

// Aliases accepted in addition to the canonical type names. The canonical
// "serial" type always yields a UNIQUE column, matching field.ID, whether or
// not the field sets unique.
var aliases = map[string]field.TypeInfo{
	"geospatial": field.DecimalOf(9, 6),
	"strings":    field.ArrayOf(field.TypeInfo{Type: field.TypeString}),
	"integer":    {Type: field.TypeInt},
	"text":       {Type: field.TypeString},
	"timestamp":  {Type: field.TypeTime},
}

// ParseType parses a column type in the form printed by field.TypeInfo.String.
//
//	int, serial, string, time, bytes
//	decimal(9,6)
//	array<array<int>>
func ParseType(s string) (field.TypeInfo, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if info, ok := aliases[lower]; ok {
		return info, nil
	}
	switch {
	case strings.HasPrefix(lower, "decimal(") && strings.HasSuffix(lower, ")"):
		args := strings.Split(lower[len("decimal("):len(lower)-1], ",")
		if len(args) != 2 {
			return field.TypeInfo{}, fmt.Errorf("load: decimal type %q: want decimal(precision,scale)", s)
		}
		p, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			return field.TypeInfo{}, fmt.Errorf("load: decimal precision of %q: %w", s, err)
		}
		sc, err := strconv.Atoi(strings.TrimSpace(args[1]))
		if err != nil {
			return field.TypeInfo{}, fmt.Errorf("load: decimal scale of %q: %w", s, err)
		}
		return field.DecimalOf(p, sc), nil
	case strings.HasPrefix(lower, "array<") && strings.HasSuffix(lower, ">"):
		elem, err := ParseType(s[len("array<") : len(s)-1])
		if err != nil {
			return field.TypeInfo{}, err
		}
		return field.ArrayOf(elem), nil
	}
	for t := field.TypeInt; t.Valid(); t++ {
		if lower == t.String() && t != field.TypeDecimal && t != field.TypeArray {
			return field.TypeInfo{Type: t}, nil
		}
	}
	return field.TypeInfo{}, fmt.Errorf("load: unknown type %q", s)
}
