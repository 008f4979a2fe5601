package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/daogen/compiler/gen"
)

// self is the receiver name of the generated methods.
const self = "_e"

// genConstants generates the table and column name constants.
func genConstants(f *jen.File, t *gen.Table) {
	f.Const().DefsFunc(func(group *jen.Group) {
		group.Comment(t.TableConst() + " holds the table name in the database.")
		group.Id(t.TableConst()).Op("=").Lit(t.Name)
		for _, fd := range t.Fields {
			group.Comment(fd.ColumnConst() + ` holds the "` + fd.Name + `" column name.`)
			group.Id(fd.ColumnConst()).Op("=").Lit(fd.Name)
		}
	})
}

// genStruct generates the row struct.
func genStruct(h gen.GeneratorHelper, f *jen.File, t *gen.Table) {
	f.Comment(t.TypeName + " is a row of the " + t.Name + " table.")
	f.Type().Id(t.TypeName).StructFunc(func(group *jen.Group) {
		for _, fd := range t.Fields {
			group.Comment(fd.DocComment())
			group.Id(fd.StructField).Add(h.GoType(fd)).Tag(h.StructTags(fd))
		}
	})
}

// genConstructor generates New<T>, taking one parameter per field.
func genConstructor(h gen.GeneratorHelper, f *jen.File, t *gen.Table) {
	f.Comment(t.Constructor() + " returns a new " + t.TypeName + " holding the given values. It does not validate them.")
	f.Func().Id(t.Constructor()).ParamsFunc(func(group *jen.Group) {
		for _, fd := range t.Fields {
			group.Id(fd.Param).Add(h.GoType(fd))
		}
	}).Op("*").Id(t.TypeName).Block(
		jen.Return(jen.Op("&").Id(t.TypeName).Values(jen.DictFunc(func(d jen.Dict) {
			for _, fd := range t.Fields {
				d[jen.Id(fd.StructField)] = jen.Id(fd.Param)
			}
		}))),
	)
}

// genInsert generates InsertSelfIntoTable.
func genInsert(h gen.GeneratorHelper, f *jen.File, t *gen.Table) {
	spec := jen.Dict{
		jen.Id("Table"):     jen.Id(t.TableConst()),
		jen.Id("Statement"): jen.Lit(t.InsertStatement()),
		jen.Id("Values"): jen.Index().Id("any").ValuesFunc(func(group *jen.Group) {
			for _, fd := range t.InsertFields() {
				group.Id(self).Dot(fd.StructField)
			}
		}),
		jen.Id("Node"): jen.Id(self),
	}
	f.Comment("InsertSelfIntoTable inserts the row into the " + t.Name + " table. Serial columns are")
	f.Comment("left to the database and are not read back.")
	if t.HasUnique() {
		a, b := t.Unique[0], t.Unique[1]
		spec[jen.Id("Unique")] = jen.Op("&").Qual(h.SQLGraphPkg(), "UniqueCheck").Values(jen.Dict{
			jen.Id("Query"):   jen.Lit(t.ExistsQuery()),
			jen.Id("Columns"): jen.Index(jen.Lit(2)).String().Values(jen.Id(a.ColumnConst()), jen.Id(b.ColumnConst())),
			jen.Id("Values"):  jen.Index(jen.Lit(2)).Id("any").Values(jen.Id(self).Dot(a.StructField), jen.Id(self).Dot(b.StructField)),
		})
		f.Comment("")
		f.Comment("The insert is preceded by a query checking that no row holds the same")
		f.Comment(a.Name + " and " + b.Name + ". The two statements run separately, so a concurrent")
		f.Comment("insert of the same pair may pass the check and fail on the UNIQUE constraint")
		f.Comment("instead. Both outcomes are reported as a constraint violation, see")
		f.Comment("daogen.IsConstraintViolation. Run on a serializable transaction to avoid the")
		f.Comment("second round trip failing.")
	}
	f.Func().Params(jen.Id(self).Op("*").Id(t.TypeName)).Id("InsertSelfIntoTable").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("client").Qual(h.DialectPkg(), "ExecQuerier"),
	).Error().Block(
		jen.Return(jen.Qual(h.SQLGraphPkg(), "InsertNode").Call(
			jen.Id("ctx"),
			jen.Id("client"),
			jen.Op("&").Qual(h.SQLGraphPkg(), "InsertSpec").Values(spec),
		)),
	)
}

// genFromRow generates <T>FromRow. The first failing column aborts the
// hydration and no value is returned.
func genFromRow(h gen.GeneratorHelper, f *jen.File, t *gen.Table) {
	v := t.Receiver()
	f.Comment(t.FromRowFunc() + " reads a " + t.TypeName + " from a result row by column name.")
	f.Func().Id(t.FromRowFunc()).Params(
		jen.Id("row").Qual(h.DialectPkg(), "ColumnGetter"),
	).Params(jen.Op("*").Id(t.TypeName), jen.Error()).BlockFunc(func(group *jen.Group) {
		group.Id(v).Op(":=").Op("&").Id(t.TypeName).Values()
		for _, fd := range t.Fields {
			group.If(
				jen.Err().Op(":=").Id("row").Dot("GetColumn").Call(jen.Id(fd.ColumnConst()), jen.Op("&").Id(v).Dot(fd.StructField)),
				jen.Err().Op("!=").Nil(),
			).Block(
				jen.Return(jen.Nil(), jen.Qual(h.DaogenPkg(), "NewHydrationError").Call(
					jen.Id(t.TableConst()), jen.Id(fd.ColumnConst()), jen.Err(),
				)),
			)
		}
		group.Return(jen.Id(v), jen.Nil())
	})
}

// genString generates the String method. Nil pointers render as <nil>,
// others are dereferenced.
func genString(f *jen.File, t *gen.Table) {
	f.Comment("String implements the fmt.Stringer.")
	f.Func().Params(jen.Id(self).Op("*").Id(t.TypeName)).Id("String").Params().String().BlockFunc(func(group *jen.Group) {
		group.Var().Id("builder").Qual("strings", "Builder")
		group.Id("builder").Dot("WriteString").Call(jen.Lit(t.TypeName + "("))
		for i, fd := range t.Fields {
			label := fd.Name + "="
			if i > 0 {
				label = ", " + label
			}
			group.Id("builder").Dot("WriteString").Call(jen.Lit(label))
			if !fd.Pointer() {
				group.Id("builder").Dot("WriteString").Call(jen.Qual("fmt", "Sprint").Call(jen.Id(self).Dot(fd.StructField)))
				continue
			}
			group.If(jen.Id("v").Op(":=").Id(self).Dot(fd.StructField), jen.Id("v").Op("!=").Nil()).Block(
				jen.Id("builder").Dot("WriteString").Call(jen.Qual("fmt", "Sprint").Call(jen.Op("*").Id("v"))),
			).Else().Block(
				jen.Id("builder").Dot("WriteString").Call(jen.Lit("<nil>")),
			)
		}
		group.Id("builder").Dot("WriteByte").Call(jen.LitRune(')'))
		group.Return(jen.Id("builder").Dot("String").Call())
	})
}
