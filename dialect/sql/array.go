package sql

import (
	"database/sql"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lib/pq"
)

// pgtype.Map caches scan plans and is not safe for concurrent use.
var arrayMaps = sync.Pool{
	New: func() any { return pgtype.NewMap() },
}

var (
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	timeType    = reflect.TypeOf(time.Time{})
)

// arrayOIDs maps the innermost element type of a slice destination to the
// array type whose text form lib/pq hands back.
var arrayOIDs = map[reflect.Type]uint32{
	reflect.TypeOf(""):         pgtype.TextArrayOID,
	reflect.TypeOf(false):      pgtype.BoolArrayOID,
	reflect.TypeOf(int16(0)):   pgtype.Int2ArrayOID,
	reflect.TypeOf(int32(0)):   pgtype.Int4ArrayOID,
	reflect.TypeOf(int64(0)):   pgtype.Int8ArrayOID,
	reflect.TypeOf(int(0)):     pgtype.Int8ArrayOID,
	reflect.TypeOf(uint32(0)):  pgtype.Int8ArrayOID,
	reflect.TypeOf(float32(0)): pgtype.Float4ArrayOID,
	reflect.TypeOf(float64(0)): pgtype.Float8ArrayOID,
	bytesType:                  pgtype.ByteaArrayOID,
	timeType:                   pgtype.TimestamptzArrayOID,
}

// scanArray decodes the text form of a Postgres array into the slice that
// dest points to. Nested slices receive multidimensional arrays. One
// dimensional arrays of sql.Scanner elements, such as decimal.Decimal, are
// left to lib/pq.
func scanArray(src, dest any) error {
	var text []byte
	switch s := src.(type) {
	case []byte:
		text = s
	case string:
		text = []byte(s)
	default:
		return fmt.Errorf("converting %T to %T is unsupported", src, dest)
	}
	elem, depth := arrayElem(reflect.TypeOf(dest).Elem())
	oid, ok := arrayOIDs[elem]
	switch {
	case ok:
	case !reflect.PointerTo(elem).Implements(scannerType):
		return fmt.Errorf("scanning array into %T is unsupported", dest)
	case depth == 1:
		return pq.Array(dest).Scan(text)
	default:
		// Scanner elements receive the element text as a string.
		oid = pgtype.TextArrayOID
	}
	m := arrayMaps.Get().(*pgtype.Map)
	defer arrayMaps.Put(m)
	return m.Scan(oid, pgtype.TextFormatCode, text, dest)
}

// arrayElem returns the innermost non-slice element type of t, ignoring
// pointers, and the number of slice levels around it. []byte counts as an
// element.
func arrayElem(t reflect.Type) (reflect.Type, int) {
	depth := 0
	for t.Kind() == reflect.Slice && t != bytesType {
		t = t.Elem()
		depth++
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
	}
	return t, depth
}
