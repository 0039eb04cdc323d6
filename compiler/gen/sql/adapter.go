package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/repogen/compiler/gen"
)

const (
	retrievalHelper = "executeRetrievalQuery"
	writeHelper     = "executeWriteQuery"
)

// genAdapter generates the database/sql implementation file ({dialect}_adapter.go).
// Includes: adapter struct and constructor, one method per Repository method,
// and the two helpers every query goes through.
func genAdapter(h gen.GeneratorHelper) *jen.File {
	f := h.NewFile(h.Pkg())
	g := h.Graph()
	s := h.Storage()
	name := s.AdapterName()

	f.Commentf("%s implements %s on a %s database through database/sql.", name, repositoryName, s.IdentName)
	f.Type().Id(name).Struct(
		jen.Id("db").Op("*").Qual("database/sql", "DB"),
	)

	f.Line()
	f.Commentf("New%s returns an adapter that runs its queries on db.", name)
	f.Func().Id("New"+name).Params(jen.Id("db").Op("*").Qual("database/sql", "DB")).Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values(jen.Id("db").Op(":").Id("db"))),
	)

	f.Line()
	f.Var().Id("_").Id(repositoryName).Op("=").Parens(jen.Op("*").Id(name)).Parens(jen.Nil())

	for _, t := range g.Nodes {
		for _, m := range methods(t) {
			f.Line()
			f.Comment(m.doc)
			f.Func().Params(jen.Id("a").Op("*").Id(name)).Id(m.name).ParamsFunc(m.paramList(true)).Params(m.results...).BlockFunc(func(grp *jen.Group) {
				switch m.kind {
				case addMethod:
					genAddBody(grp, t, s)
				case getMethod:
					genGetBody(grp, t, s)
				case listMethod:
					genListBody(grp, t)
				}
			})
		}
	}

	genRetrievalHelper(f, name)
	genWriteHelper(f, name)
	return f
}

// genAddBody binds the entity fields in column order.
func genAddBody(grp *jen.Group, t *gen.Type, s *gen.Storage) {
	grp.Return(jen.Id("a").Dot(writeHelper).CallFunc(func(call *jen.Group) {
		call.Id("ctx")
		call.Lit(InsertQuery(t, s))
		for _, c := range t.Columns {
			call.Id(t.ParamName()).Dot(c.StructField)
		}
	}))
}

func genGetBody(grp *jen.Group, t *gen.Type, s *gen.Storage) {
	grp.List(jen.Id("rows"), jen.Err()).Op(":=").Id("a").Dot(retrievalHelper).Call(
		jen.Id("ctx"), jen.Lit(SelectOneQuery(t, s)), jen.Id(t.ID.Param),
	)
	grp.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err()))
	grp.If(jen.Len(jen.Id("rows")).Op("==").Lit(0)).Block(jen.Return(jen.Nil(), jen.Nil()))
	grp.Id("row").Op(":=").Id("rows").Index(jen.Lit(0))
	grp.Return(entityFromRow(t), jen.Nil())
}

func genListBody(grp *jen.Group, t *gen.Type) {
	grp.List(jen.Id("rows"), jen.Err()).Op(":=").Id("a").Dot(retrievalHelper).Call(
		jen.Id("ctx"), jen.Lit(SelectAllQuery(t)),
	)
	grp.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err()))
	grp.Id("result").Op(":=").Make(jen.Index().Op("*").Id(t.Name), jen.Lit(0), jen.Len(jen.Id("rows")))
	grp.For(jen.List(jen.Id("_"), jen.Id("row")).Op(":=").Range().Id("rows")).Block(
		jen.Id("result").Op("=").Append(jen.Id("result"), entityFromRow(t)),
	)
	grp.Return(jen.Id("result"), jen.Nil())
}

// entityFromRow maps the selected values to entity fields by position.
func entityFromRow(t *gen.Type) jen.Code {
	return jen.Op("&").Id(t.Name).ValuesFunc(func(vals *jen.Group) {
		for _, c := range t.Columns {
			vals.Line().Id(c.StructField).Op(":").Id("row").Index(jen.Lit(c.Index))
		}
		vals.Line()
	})
}

func genRetrievalHelper(f *jen.File, name string) {
	f.Line()
	f.Commentf("%s runs query on a dedicated connection and returns every", retrievalHelper)
	f.Comment("row as strings, in select-list order. NULL reads as the empty string.")
	f.Func().Params(jen.Id("a").Op("*").Id(name)).Id(retrievalHelper).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("query").String(),
		jen.Id("args").Op("...").Id("any"),
	).Params(jen.Index().Index().String(), jen.Error()).Block(
		jen.List(jen.Id("conn"), jen.Err()).Op(":=").Id("a").Dot("db").Dot("Conn").Call(jen.Id("ctx")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Defer().Id("conn").Dot("Close").Call(),
		jen.Line(),
		jen.List(jen.Id("rows"), jen.Err()).Op(":=").Id("conn").Dot("QueryContext").Call(jen.Id("ctx"), jen.Id("query"), jen.Id("args").Op("...")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Defer().Id("rows").Dot("Close").Call(),
		jen.Line(),
		jen.List(jen.Id("columns"), jen.Err()).Op(":=").Id("rows").Dot("Columns").Call(),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Var().Id("result").Index().Index().String(),
		jen.For(jen.Id("rows").Dot("Next").Call()).Block(
			jen.Id("values").Op(":=").Make(jen.Index().Qual("database/sql", "NullString"), jen.Len(jen.Id("columns"))),
			jen.Id("dest").Op(":=").Make(jen.Index().Id("any"), jen.Len(jen.Id("columns"))),
			jen.For(jen.Id("i").Op(":=").Range().Id("values")).Block(
				jen.Id("dest").Index(jen.Id("i")).Op("=").Op("&").Id("values").Index(jen.Id("i")),
			),
			jen.If(jen.Err().Op(":=").Id("rows").Dot("Scan").Call(jen.Id("dest").Op("...")), jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Nil(), jen.Err()),
			),
			jen.Id("row").Op(":=").Make(jen.Index().String(), jen.Len(jen.Id("columns"))),
			jen.For(jen.List(jen.Id("i"), jen.Id("v")).Op(":=").Range().Id("values")).Block(
				jen.Id("row").Index(jen.Id("i")).Op("=").Id("v").Dot("String"),
			),
			jen.Id("result").Op("=").Append(jen.Id("result"), jen.Id("row")),
		),
		jen.Return(jen.Id("result"), jen.Id("rows").Dot("Err").Call()),
	)
}

func genWriteHelper(f *jen.File, name string) {
	f.Line()
	f.Commentf("%s runs query on a dedicated connection and returns the first", writeHelper)
	f.Comment("column of the row it returns, or nil if that value is absent.")
	f.Func().Params(jen.Id("a").Op("*").Id(name)).Id(writeHelper).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("query").String(),
		jen.Id("args").Op("...").Id("any"),
	).Params(jen.Op("*").String(), jen.Error()).Block(
		jen.List(jen.Id("conn"), jen.Err()).Op(":=").Id("a").Dot("db").Dot("Conn").Call(jen.Id("ctx")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Defer().Id("conn").Dot("Close").Call(),
		jen.Line(),
		jen.Var().Id("value").Qual("database/sql", "NullString"),
		jen.Err().Op("=").Id("conn").Dot("QueryRowContext").Call(jen.Id("ctx"), jen.Id("query"), jen.Id("args").Op("...")).Dot("Scan").Call(jen.Op("&").Id("value")),
		jen.Switch().Block(
			jen.Case(jen.Qual("errors", "Is").Call(jen.Err(), jen.Qual("database/sql", "ErrNoRows"))).Block(
				jen.Return(jen.Nil(), jen.Nil()),
			),
			jen.Case(jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Nil(), jen.Err()),
			),
			jen.Case(jen.Op("!").Id("value").Dot("Valid")).Block(
				jen.Return(jen.Nil(), jen.Nil()),
			),
		),
		jen.Return(jen.Op("&").Id("value").Dot("String"), jen.Nil()),
	)
}
