package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/daogen/schema/field"
)

func TestTypeRendering(t *testing.T) {
	tests := []struct {
		info   field.TypeInfo
		sql    string
		goType string
	}{
		{field.TypeInfo{Type: field.TypeInt}, "INT", "int32"},
		{field.TypeInfo{Type: field.TypeSerial}, "SERIAL", "*uint32"},
		{field.TypeInfo{Type: field.TypeString}, "TEXT", "string"},
		{field.TypeInfo{Type: field.TypeTime}, "TIMESTAMPTZ", "time.Time"},
		{field.TypeInfo{Type: field.TypeBytes}, "bytea", "[]byte"},
		{field.DecimalOf(10, 2), "DECIMAL(10, 2)", "decimal.Decimal"},
		{field.ArrayOf(field.TypeInfo{Type: field.TypeString}), "TEXT[]", "[]string"},
		{field.ArrayOf(field.ArrayOf(field.DecimalOf(9, 6))), "DECIMAL(9, 6)[][]", "[][]decimal.Decimal"},
		{field.ArrayOf(field.TypeInfo{Type: field.TypeBytes}), "bytea[]", "[][]byte"},
	}
	for _, tt := range tests {
		t.Run(tt.info.String(), func(t *testing.T) {
			require.NoError(t, tt.info.Validate())
			assert.Equal(t, tt.sql, tt.info.SQLType())
			assert.Equal(t, tt.goType, tt.info.GoType())
		})
	}
}

func TestTypeInfoValidate(t *testing.T) {
	assert.ErrorIs(t, field.TypeInfo{}.Validate(), field.ErrInvalidType)
	assert.ErrorIs(t, field.TypeInfo{Type: 42}.Validate(), field.ErrInvalidType)
	assert.ErrorIs(t, field.TypeInfo{Type: field.TypeArray}.Validate(), field.ErrMissingElem)
	assert.ErrorIs(t, field.ArrayOf(field.TypeInfo{Type: field.TypeSerial}).Validate(), field.ErrSerialElem)
	assert.ErrorIs(t, field.DecimalOf(0, 0).Validate(), field.ErrDecimalBounds)
	assert.ErrorIs(t, field.DecimalOf(4, 5).Validate(), field.ErrDecimalBounds)
	assert.ErrorIs(t, field.ArrayOf(field.ArrayOf(field.DecimalOf(2, 3))).Validate(), field.ErrDecimalBounds)
	assert.NoError(t, field.DecimalOf(5, 0).Validate())
}

func TestTypeInfoEqual(t *testing.T) {
	a := field.ArrayOf(field.DecimalOf(9, 6))
	b := field.ArrayOf(field.DecimalOf(9, 6))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(field.ArrayOf(field.DecimalOf(9, 5))))
	assert.False(t, a.Equal(field.DecimalOf(9, 6)))
	assert.False(t, field.TypeInfo{Type: field.TypeArray}.Equal(a))
}

func TestTypeInfoPkgPaths(t *testing.T) {
	assert.Nil(t, field.TypeInfo{Type: field.TypeInt}.PkgPaths())
	assert.Equal(t, []string{field.TimePkg}, field.TypeInfo{Type: field.TypeTime}.PkgPaths())
	assert.Equal(t, []string{field.DecimalPkg}, field.ArrayOf(field.ArrayOf(field.DecimalOf(3, 1))).PkgPaths())
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "serial", field.TypeSerial.String())
	assert.Equal(t, "invalid", field.Type(200).String())
	assert.False(t, field.TypeInvalid.Valid())
	assert.True(t, field.TypeArray.Valid())
}

func TestID(t *testing.T) {
	fd := field.ID("user_id").Descriptor()
	require.NoError(t, fd.Err)
	assert.Equal(t, "user_id", fd.Name)
	assert.Equal(t, field.TypeSerial, fd.Info.Type)
	assert.True(t, fd.Unique)
	assert.False(t, fd.Nullable)
	assert.True(t, fd.Serial())
	assert.True(t, fd.Pointer())
	assert.Equal(t, "*uint32", fd.GoType())

	// An optional identity is never wrapped twice.
	fd = field.ID("user_id").Nillable().Descriptor()
	assert.Equal(t, "*uint32", fd.GoType())
}

func TestBuilders(t *testing.T) {
	fd := field.UniqueString("username").Descriptor()
	assert.Equal(t, field.TypeString, fd.Info.Type)
	assert.True(t, fd.Unique)

	fd = field.DateTime("date_created").Comment("creation time").Descriptor()
	assert.Equal(t, "time.Time", fd.GoType())
	assert.Equal(t, "creation time", fd.Comment)

	fd = field.Int("user_id").References("User", "user_id").Descriptor()
	require.NoError(t, fd.Err)
	require.NotNil(t, fd.Reference)
	assert.Equal(t, "User(user_id)", fd.Reference.String())
	assert.False(t, fd.Serial())

	fd = field.Geospatial("latitude").Descriptor()
	assert.Equal(t, "DECIMAL(9, 6)", fd.SQLType())
	assert.False(t, fd.Nullable)

	fd = field.Strings("tags").Nillable().Descriptor()
	assert.Equal(t, "TEXT[]", fd.SQLType())
	assert.Equal(t, "*[]string", fd.GoType())
	assert.True(t, fd.Pointer())

	fd = field.Bytes("avatar").Nillable().Descriptor()
	assert.Equal(t, "*[]byte", fd.GoType())

	fd = field.Array("grid", field.ArrayOf(field.TypeInfo{Type: field.TypeInt})).Descriptor()
	assert.Equal(t, "INT[][]", fd.SQLType())
	assert.Equal(t, "[][]int32", fd.GoType())
}

func TestBuilderErrors(t *testing.T) {
	fd := field.Decimal("price", 2, 5).Descriptor()
	assert.ErrorIs(t, fd.Err, field.ErrDecimalBounds)

	fd = field.Int("").Descriptor()
	assert.Error(t, fd.Err)

	fd = field.Int("user_id").References("", "user_id").Descriptor()
	assert.Error(t, fd.Err)

	fd = field.Array("ids", field.TypeInfo{Type: field.TypeSerial}).Descriptor()
	assert.ErrorIs(t, fd.Err, field.ErrSerialElem)
}
