package sql

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/lib/pq"

	"github.com/syssam/daogen"
	"github.com/syssam/daogen/dialect"
)

// ColumnScanner is the interface that wraps the standard
// sql.Rows methods used for scanning database rows.
type ColumnScanner interface {
	Columns() ([]string, error)
	Scan(dest ...any) error
}

// Columns holds the values of one scanned row, addressable by position and
// by column name.
type Columns struct {
	names  []string
	index  map[string]int
	values []any
}

// ScanColumns scans the current row of rows. Call it after a successful
// rows.Next().
//
//	for rows.Next() {
//	    c, err := sql.ScanColumns(rows)
//	    ...
//	    u, err := dao.UserFromRow(c)
//	}
func ScanColumns(rows ColumnScanner) (*Columns, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	index := make(map[string]int, len(names))
	for i, n := range names {
		if _, ok := index[n]; !ok {
			index[n] = i
		}
	}
	return &Columns{names: names, index: index, values: values}, nil
}

// Names returns the column names of the row.
func (c *Columns) Names() []string {
	return c.names
}

// Get implements dialect.Row.
func (c *Columns) Get(i int, dest any) error {
	if i < 0 || i >= len(c.values) {
		return fmt.Errorf("dialect/sql: column index %d out of range [0, %d)", i, len(c.values))
	}
	if err := assign(c.values[i], dest); err != nil {
		return fmt.Errorf("dialect/sql: column %d: %w", i, err)
	}
	return nil
}

// GetColumn implements dialect.ColumnGetter.
func (c *Columns) GetColumn(name string, dest any) error {
	i, ok := c.index[name]
	if !ok {
		return &daogen.MissingColumnError{Column: name}
	}
	if err := assign(c.values[i], dest); err != nil {
		return fmt.Errorf("dialect/sql: column %q: %w", name, err)
	}
	return nil
}

var (
	_ dialect.Row          = (*Columns)(nil)
	_ dialect.ColumnGetter = (*Columns)(nil)
)

var bytesType = reflect.TypeOf([]byte(nil))

// BindArgs prepares args for database/sql. Slices other than []byte are
// encoded as Postgres arrays through pq.Array, and nil pointers to slices
// become NULL.
func BindArgs(args []any) []any {
	bound := make([]any, len(args))
	for i, arg := range args {
		bound[i] = bindArg(arg)
	}
	return bound
}

func bindArg(arg any) any {
	if arg == nil {
		return nil
	}
	if _, ok := arg.(driver.Valuer); ok {
		return arg
	}
	v := reflect.ValueOf(arg)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		if v.Elem().Kind() != reflect.Slice {
			return arg
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Slice && v.Type() != bytesType {
		return pq.Array(v.Interface())
	}
	return arg
}

// assign stores the driver value src into dest, which must be a non-nil
// pointer. It follows the conversions of database/sql for the value types
// lib/pq produces, plus Postgres arrays (see scanArray) and pointer
// destinations for NULL.
func assign(src, dest any) error {
	if s, ok := dest.(sql.Scanner); ok {
		return s.Scan(src)
	}
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("destination not a pointer: %T", dest)
	}
	ev := dv.Elem()
	switch {
	case ev.Kind() == reflect.Pointer:
		if src == nil {
			ev.Set(reflect.Zero(ev.Type()))
			return nil
		}
		nv := reflect.New(ev.Type().Elem())
		if err := assign(src, nv.Interface()); err != nil {
			return err
		}
		ev.Set(nv)
		return nil
	case ev.Kind() == reflect.Slice && ev.Type() != bytesType:
		if src == nil {
			ev.Set(reflect.Zero(ev.Type()))
			return nil
		}
		return scanArray(src, dest)
	case src == nil:
		return fmt.Errorf("converting NULL to %s is unsupported", ev.Type())
	}
	switch s := src.(type) {
	case []byte:
		switch d := dest.(type) {
		case *[]byte:
			*d = append([]byte(nil), s...)
			return nil
		case *string:
			*d = string(s)
			return nil
		}
	case string:
		switch d := dest.(type) {
		case *string:
			*d = s
			return nil
		case *[]byte:
			*d = []byte(s)
			return nil
		}
	case time.Time:
		if d, ok := dest.(*time.Time); ok {
			*d = s
			return nil
		}
	}
	sv := reflect.ValueOf(src)
	if sv.Type().AssignableTo(ev.Type()) {
		ev.Set(sv)
		return nil
	}
	return convertNumber(sv, ev)
}

// convertNumber stores the number sv into ev, failing on overflow.
func convertNumber(sv, ev reflect.Value) error {
	switch sv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := sv.Int()
		switch ev.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if ev.OverflowInt(n) {
				return fmt.Errorf("converting %d to %s: value out of range", n, ev.Type())
			}
			ev.SetInt(n)
			return nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if n < 0 || ev.OverflowUint(uint64(n)) {
				return fmt.Errorf("converting %d to %s: value out of range", n, ev.Type())
			}
			ev.SetUint(uint64(n))
			return nil
		}
	case reflect.Float32, reflect.Float64:
		f := sv.Float()
		switch ev.Kind() {
		case reflect.Float32, reflect.Float64:
			if ev.Kind() == reflect.Float32 && math.Abs(f) > math.MaxFloat32 {
				return fmt.Errorf("converting %g to %s: value out of range", f, ev.Type())
			}
			ev.SetFloat(f)
			return nil
		}
	}
	return fmt.Errorf("unsupported Scan, storing driver.Value type %T into type %s", sv.Interface(), ev.Type())
}
