package gen

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/daogen/schema"
	"github.com/syssam/daogen/schema/field"
)

func wideSchema(tables int) *schema.Schema {
	defs := make([]*schema.Table, 0, tables)
	for i := range tables {
		defs = append(defs, schema.NewTable(fmt.Sprintf("Table%d", i), []schema.Field{
			field.ID("id"),
			field.UniqueString("name"),
			field.DateTime("created_at"),
			field.Decimal("amount", 12, 2).Nillable(),
			field.Strings("labels"),
			field.Bytes("payload").Nillable(),
		}))
	}
	return schema.New(defs...)
}

func BenchmarkRender(b *testing.B) {
	g, err := NewGraph(MustNewConfig(), wideSchema(50))
	require.NoError(b, err)
	gen := NewJenniferGenerator(g)
	gen.WithDialect(stubDialect{h: gen})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := gen.Render(context.Background())
		require.NoError(b, err)
	}
}
