// Package field provides the column type system and fluent builders for
// table fields.
//
// Every field has one type from a closed set, rendered two ways: as a
// Postgres column type and as a Go type.
//
//	Type         SQL            Go
//	TypeInt      INT            int32
//	TypeSerial   SERIAL         *uint32
//	TypeString   TEXT           string
//	TypeTime     TIMESTAMPTZ    time.Time
//	TypeBytes    bytea          []byte
//	TypeDecimal  DECIMAL(p, s)  decimal.Decimal
//	TypeArray    <elem>[]       []<elem>
//
// Builders mirror the common column shapes:
//
//	field.ID("user_id")                        // SERIAL NOT NULL UNIQUE
//	field.UniqueString("username")             // TEXT NOT NULL UNIQUE
//	field.DateTime("date_created")             // TIMESTAMPTZ NOT NULL
//	field.Int("user_id").References("User", "user_id")
//	field.Strings("tags").Nillable()           // TEXT[], Go *[]string
//	field.Geospatial("lat")                    // DECIMAL(9, 6) NOT NULL
//
// Nullability belongs to the field, not the type: Nillable wraps the Go type
// in a pointer and drops NOT NULL from the column definition.
package field
