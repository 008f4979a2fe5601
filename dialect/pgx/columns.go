package pgx

import (
	"fmt"
	"sync"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/syssam/daogen"
	"github.com/syssam/daogen/dialect"
)

// pgtype.Map caches scan plans and is not safe for concurrent use.
var typeMaps = sync.Pool{
	New: func() any { return pgtype.NewMap() },
}

// Columns holds the raw values of one row together with their field
// descriptions. Values are decoded on demand into the destination type.
type Columns struct {
	fields []pgconn.FieldDescription
	index  map[string]int
	raw    [][]byte
}

// ScanColumns copies the current row. It is a pgx.RowToFunc and can be used
// with pgx.CollectRows and friends:
//
//	rows, _ := conn.Query(ctx, "SELECT * FROM Account")
//	accounts, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (*dao.Account, error) {
//	    c, err := dialectpgx.ScanColumns(r)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return dao.AccountFromRow(c)
//	})
func ScanColumns(row pgxv5.CollectableRow) (*Columns, error) {
	fields := row.FieldDescriptions()
	src := row.RawValues()
	if len(src) != len(fields) {
		return nil, fmt.Errorf("dialect/pgx: row has %d values for %d fields", len(src), len(fields))
	}
	raw := make([][]byte, len(src))
	for i, v := range src {
		if v != nil {
			// The row buffer is reused by the next call to Next.
			raw[i] = append(make([]byte, 0, len(v)), v...)
		}
	}
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if _, ok := index[f.Name]; !ok {
			index[f.Name] = i
		}
	}
	return &Columns{
		fields: append([]pgconn.FieldDescription(nil), fields...),
		index:  index,
		raw:    raw,
	}, nil
}

// Names returns the column names of the row.
func (c *Columns) Names() []string {
	names := make([]string, len(c.fields))
	for i, f := range c.fields {
		names[i] = f.Name
	}
	return names
}

// Get implements dialect.Row.
func (c *Columns) Get(i int, dest any) error {
	if i < 0 || i >= len(c.raw) {
		return fmt.Errorf("dialect/pgx: column index %d out of range [0, %d)", i, len(c.raw))
	}
	if err := c.decode(i, dest); err != nil {
		return fmt.Errorf("dialect/pgx: column %d: %w", i, err)
	}
	return nil
}

// GetColumn implements dialect.ColumnGetter.
func (c *Columns) GetColumn(name string, dest any) error {
	i, ok := c.index[name]
	if !ok {
		return &daogen.MissingColumnError{Column: name}
	}
	if err := c.decode(i, dest); err != nil {
		return fmt.Errorf("dialect/pgx: column %q: %w", name, err)
	}
	return nil
}

func (c *Columns) decode(i int, dest any) error {
	m := typeMaps.Get().(*pgtype.Map)
	defer typeMaps.Put(m)
	f := c.fields[i]
	return m.Scan(f.DataTypeOID, f.Format, c.raw[i], dest)
}

var (
	_ dialect.Row               = (*Columns)(nil)
	_ dialect.ColumnGetter      = (*Columns)(nil)
	_ pgxv5.RowToFunc[*Columns] = ScanColumns
)
