package graphql

import (
	"bytes"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/daogen/compiler/gen"
	"github.com/syssam/daogen/schema/field"
)

// Custom scalars declared when a column uses them.
const (
	ScalarTime    = "Time"
	ScalarBytes   = "Bytes"
	ScalarDecimal = "Decimal"
)

var scalarDescriptions = map[string]string{
	ScalarTime:    "Time is an RFC 3339 timestamp.",
	ScalarBytes:   "Bytes is a base64 encoded binary value.",
	ScalarDecimal: "Decimal is an arbitrary precision number encoded as a string.",
}

var title = cases.Title(language.English, cases.NoLower)

// FieldName returns the GraphQL field name of a column.
//
//	date_created => dateCreated
//	user_id => userId
func FieldName(column string) string {
	words := strings.FieldsFunc(column, func(r rune) bool { return r == '_' || r == '-' })
	if len(words) == 0 {
		return column
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(words[0][:1]) + words[0][1:])
	for _, w := range words[1:] {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// document builds the schema document of g: the custom scalars in use,
// followed by one object per table in graph order.
func (e *Extension) document(g *gen.Graph) *ast.SchemaDocument {
	var (
		doc     = &ast.SchemaDocument{}
		objects ast.DefinitionList
		used    = make(map[string]bool)
	)
	for _, t := range g.Tables {
		if e.skip[t.Name] || e.skip[t.TypeName] {
			continue
		}
		obj := &ast.Definition{
			Kind:        ast.Object,
			Name:        t.TypeName,
			Description: t.TypeName + " is a row of the " + t.Name + " table.",
		}
		for _, f := range t.Fields {
			typ := e.fieldType(f, used)
			obj.Fields = append(obj.Fields, &ast.FieldDefinition{
				Name:        FieldName(f.Name),
				Description: f.Descriptor.Comment,
				Type:        typ,
			})
		}
		objects = append(objects, obj)
	}
	for _, name := range []string{ScalarTime, ScalarBytes, ScalarDecimal} {
		if used[name] {
			doc.Definitions = append(doc.Definitions, &ast.Definition{
				Kind:        ast.Scalar,
				Name:        name,
				Description: scalarDescriptions[name],
			})
		}
	}
	doc.Definitions = append(doc.Definitions, objects...)
	return doc
}

func (e *Extension) fieldType(f *gen.Field, used map[string]bool) *ast.Type {
	if e.scalars != nil {
		if name := e.scalars(f); name != "" {
			if f.Pointer() {
				return ast.NamedType(name, nil)
			}
			return ast.NonNullNamedType(name, nil)
		}
	}
	typ := infoType(*f.Info, used)
	if f.Pointer() {
		typ.NonNull = false
	}
	return typ
}

// infoType returns the non-null GraphQL type of a column type.
func infoType(info field.TypeInfo, used map[string]bool) *ast.Type {
	var name string
	switch info.Type {
	case field.TypeSerial:
		name = "ID"
	case field.TypeInt:
		name = "Int"
	case field.TypeString:
		name = "String"
	case field.TypeTime:
		name = ScalarTime
	case field.TypeBytes:
		name = ScalarBytes
	case field.TypeDecimal:
		name = ScalarDecimal
	case field.TypeArray:
		return ast.NonNullListType(infoType(*info.Elem, used), nil)
	}
	if _, ok := scalarDescriptions[name]; ok {
		used[name] = true
	}
	return ast.NonNullNamedType(name, nil)
}

// Format renders a schema document as SDL.
func Format(doc *ast.SchemaDocument) string {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf, formatter.WithIndent("  ")).FormatSchemaDocument(doc)
	return buf.String()
}
