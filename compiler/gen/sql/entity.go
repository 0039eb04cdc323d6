package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/repogen/compiler/gen"
)

// genEntity generates the entity file ({table}.go).
// Includes: entity struct and its constructor.
func genEntity(h gen.GeneratorHelper, t *gen.Type) *jen.File {
	f := h.NewFile(h.Pkg())
	fields := t.EntityFields()

	f.Commentf("%s is the model entity for the %s table.", t.Name, t.Table())
	f.Type().Id(t.Name).StructFunc(func(group *jen.Group) {
		for _, c := range fields {
			group.Id(c.StructField).String().Tag(map[string]string{"json": c.Name})
		}
	})

	f.Line()
	f.Commentf("%s returns a %s. An empty %s is replaced by a new random UUID.", t.ConstructorName(), t.Name, t.ID.Param)
	f.Func().Id(t.ConstructorName()).ParamsFunc(func(group *jen.Group) {
		for i, c := range fields {
			if i == len(fields)-1 {
				group.Id(c.Param).String()
			} else {
				group.Id(c.Param)
			}
		}
	}).Op("*").Id(t.Name).Block(
		jen.If(jen.Id(t.ID.Param).Op("==").Lit("")).Block(
			jen.Id(t.ID.Param).Op("=").Qual("github.com/google/uuid", "NewString").Call(),
		),
		jen.Return(jen.Op("&").Id(t.Name).ValuesFunc(func(vals *jen.Group) {
			for _, c := range fields {
				vals.Line().Id(c.StructField).Op(":").Id(c.Param)
			}
			vals.Line()
		})),
	)
	return f
}
