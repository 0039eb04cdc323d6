package sql

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/repogen/compiler/gen"
)

const (
	repositoryName    = "Repository"
	unimplementedName = "UnimplementedRepository"
	errNotImplemented = "ErrNotImplemented"
)

type (
	// method describes one Repository method. The interface, the
	// unimplemented stub and the adapter all render from the same value.
	method struct {
		kind    methodKind
		name    string
		doc     string
		params  []param
		results []jen.Code
	}

	param struct {
		name string
		typ  jen.Code
	}

	methodKind int
)

const (
	addMethod methodKind = iota
	getMethod
	listMethod
)

// methods returns the create, get-one and get-all methods of t.
func methods(t *gen.Type) []*method {
	ctx := param{name: "ctx", typ: jen.Qual("context", "Context")}
	return []*method{
		{
			kind:    addMethod,
			name:    t.AddName(),
			doc:     fmt.Sprintf("%s stores %s and returns the value of its %s column.", t.AddName(), t.ParamName(), t.ID.Name),
			params:  []param{ctx, {name: t.ParamName(), typ: jen.Op("*").Id(t.Name)}},
			results: []jen.Code{jen.Op("*").String(), jen.Error()},
		},
		{
			kind:    getMethod,
			name:    t.GetName(),
			doc:     fmt.Sprintf("%s returns the %s row whose %s equals %s, or nil if there is none.", t.GetName(), t.Table(), t.ID.Name, t.ID.Param),
			params:  []param{ctx, {name: t.ID.Param, typ: jen.String()}},
			results: []jen.Code{jen.Op("*").Id(t.Name), jen.Error()},
		},
		{
			kind:    listMethod,
			name:    t.ListName(),
			doc:     fmt.Sprintf("%s returns all %s rows. Their order is not specified.", t.ListName(), t.Table()),
			params:  []param{ctx},
			results: []jen.Code{jen.Index().Op("*").Id(t.Name), jen.Error()},
		},
	}
}

// paramList renders the parameters of m. Names are omitted when named is
// false.
func (m *method) paramList(named bool) func(*jen.Group) {
	return func(g *jen.Group) {
		for _, p := range m.params {
			if named {
				g.Id(p.name).Add(p.typ)
			} else {
				g.Add(p.typ)
			}
		}
	}
}

// genRepository generates the data-access interface file (repository.go).
// Includes: Repository interface, ErrNotImplemented, UnimplementedRepository.
func genRepository(h gen.GeneratorHelper) *jen.File {
	f := h.NewFile(h.Pkg())
	g := h.Graph()

	f.Comment(errNotImplemented + " is returned by every method of " + unimplementedName + ".")
	f.Var().Id(errNotImplemented).Op("=").Qual("errors", "New").Call(jen.Lit("not implemented"))

	f.Line()
	f.Comment(repositoryName + " declares a create, get-one and get-all operation per table.")
	f.Comment("Implementations return nil, and no error, for a row or identifier that is absent.")
	f.Type().Id(repositoryName).InterfaceFunc(func(group *jen.Group) {
		for _, t := range g.Nodes {
			for _, m := range methods(t) {
				group.Comment(m.doc)
				group.Id(m.name).ParamsFunc(m.paramList(true)).Params(m.results...)
			}
		}
	})

	f.Line()
	f.Comment(unimplementedName + " implements " + repositoryName + " with methods that")
	f.Comment("return " + errNotImplemented + ". Embed it to implement a subset of the tables.")
	f.Type().Id(unimplementedName).Struct()
	for _, t := range g.Nodes {
		for _, m := range methods(t) {
			f.Line()
			f.Func().Params(jen.Id(unimplementedName)).Id(m.name).ParamsFunc(m.paramList(false)).Params(m.results...).Block(
				jen.Return(jen.Nil(), jen.Id(errNotImplemented)),
			)
		}
	}

	f.Line()
	f.Var().Id("_").Id(repositoryName).Op("=").Parens(jen.Op("*").Id(unimplementedName)).Parens(jen.Nil())
	return f
}
