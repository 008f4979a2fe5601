package load

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/daogen/schema"
	"github.com/syssam/daogen/schema/field"
)

func TestLoad(t *testing.T) {
	s, err := Load("testdata/userinterest.yaml")
	require.NoError(t, err)
	require.Len(t, s.Tables, 3)
	require.NoError(t, s.Err())

	user := s.Tables[0]
	assert.Equal(t, "User", user.Name)
	require.Len(t, user.Fields, 3)
	assert.Equal(t, field.TypeSerial, user.Fields[0].Info.Type)
	assert.True(t, user.Fields[1].Unique)
	assert.Equal(t, field.TypeTime, user.Fields[2].Info.Type)

	join := s.Tables[2]
	want := schema.NewJoinTable("User", "user_id", "Interest", "interest_id")
	assert.Equal(t, want.Name, join.Name)
	assert.Equal(t, want.CompositeUnique, join.CompositeUnique)
	require.Len(t, join.Fields, 2)
	assert.Equal(t, "User(user_id)", join.Fields[0].Reference.String())
}

func TestLoadSerialUnique(t *testing.T) {
	s, err := Parse([]byte(`
tables:
  - name: Account
    fields:
      - {name: account_id, type: serial}
      - {name: legacy_id, type: serial, unique: true}
      - {name: email, type: string}
`))
	require.NoError(t, err)
	id, _ := s.Tables[0].Field("account_id")
	assert.True(t, id.Unique)
	assert.Equal(t, field.ID("account_id").Descriptor(), id)
	legacy, _ := s.Tables[0].Field("legacy_id")
	assert.True(t, legacy.Unique)
	email, _ := s.Tables[0].Field("email")
	assert.False(t, email.Unique)
}

func TestLoadTypes(t *testing.T) {
	s, err := Load("testdata/types.yaml")
	require.NoError(t, err)
	place := s.Tables[0]
	assert.Equal(t, "place_id", place.PrimaryKey)
	assert.Equal(t, [2]string{"lat", "lng"}, place.CompositeUnique.Columns)

	types := make(map[string]string)
	for _, f := range place.Fields {
		types[f.Name] = f.SQLType()
	}
	assert.Equal(t, map[string]string{
		"place_id": "INT",
		"lat":      "DECIMAL(9, 6)",
		"lng":      "DECIMAL(9, 6)",
		"tags":     "TEXT[]",
		"grid":     "INT[][]",
		"photo":    "bytea",
		"owner":    "INT",
	}, types)

	tags, _ := place.Field("tags")
	assert.True(t, tags.Nullable)
	photo, _ := place.Field("photo")
	assert.Equal(t, "Photo is a JPEG thumbnail.", photo.Comment)
	owner, _ := place.Field("owner")
	assert.Equal(t, &field.Reference{Table: "User", Column: "user_id"}, owner.Reference)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("testdata/missing.yaml")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load("testdata/unknown_key.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")

	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{"unknown type", "tables: [{name: T, fields: [{name: a, type: uuid}]}]", `unknown type "uuid"`},
		{"bad decimal", "tables: [{name: T, fields: [{name: a, type: decimal(9)}]}]", "want decimal(precision,scale)"},
		{"bad reference", "tables: [{name: T, fields: [{name: a, type: int, references: User}]}]", "want Table(column)"},
		{"missing name", "tables: [{fields: [{name: a, type: int}]}]", "table #0: missing name"},
		{"composite arity", "tables: [{name: T, composite_unique: [a], fields: [{name: a, type: int}]}]", "composite_unique takes two columns"},
		{"join with fields", "tables: [{join: {table1: A, key1: a, table2: B, key2: b}, fields: [{name: a, type: int}]}]", "join tables take no fields"},
		{"join name", "tables: [{name: AB, join: {table1: A, key1: a, table2: B, key2: b}}]", "join table is named BForA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "tables: []"} {
		_, err := Parse([]byte(in))
		assert.ErrorIs(t, err, ErrEmptyDefinition, in)
	}
}

func TestParseType(t *testing.T) {
	for in, want := range map[string]field.TypeInfo{
		"int":                 {Type: field.TypeInt},
		"Serial":              {Type: field.TypeSerial},
		"text":                {Type: field.TypeString},
		"timestamp":           {Type: field.TypeTime},
		"bytes":               {Type: field.TypeBytes},
		"decimal(10, 2)":      field.DecimalOf(10, 2),
		"array<decimal(4,1)>": field.ArrayOf(field.DecimalOf(4, 1)),
		"strings":             field.ArrayOf(field.TypeInfo{Type: field.TypeString}),
	} {
		got, err := ParseType(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s: got %s", in, got)
	}
	for _, in := range []string{"decimal", "array", "array<>", "invalid", "decimal(a,b)"} {
		_, err := ParseType(in)
		assert.Error(t, err, in)
	}
}

func TestMarshalSchema(t *testing.T) {
	s, err := Load("testdata/types.yaml")
	require.NoError(t, err)
	out, err := MarshalSchema(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), "composite_unique: [lat, lng]")
	assert.Contains(t, string(out), "type: decimal(9,6)")
	assert.Contains(t, string(out), "references: User(user_id)")

	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, out, 0o644))
	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FromSchema(s), FromSchema(back))
}
