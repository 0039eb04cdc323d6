package sql

import (
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/require"

	"github.com/syssam/repogen/compiler/gen"
	"github.com/syssam/repogen/compiler/load"
)

// mockHelper implements gen.GeneratorHelper over a fixed graph.
type mockHelper struct {
	graph *gen.Graph
}

func (m *mockHelper) NewFile(pkg string) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment(gen.Notice)
	return f
}

func (m *mockHelper) Graph() *gen.Graph     { return m.graph }
func (m *mockHelper) Pkg() string           { return m.graph.Package }
func (m *mockHelper) Storage() *gen.Storage { return m.graph.Storage }

// Ensure mockHelper implements gen.GeneratorHelper.
var _ gen.GeneratorHelper = (*mockHelper)(nil)

func documentTable() *load.Table {
	return &load.Table{
		Name:    "document",
		Columns: []string{"id", "name", "url", "status"},
	}
}

func clauseTable() *load.Table {
	return &load.Table{
		Name:    "clause",
		Columns: []string{"id", "documentId", "section", "subsection", "content"},
	}
}

// newMockHelper builds a graph of the given tables for the given dialect.
func newMockHelper(t *testing.T, dialect string, tables ...*load.Table) *mockHelper {
	t.Helper()
	cfg, err := gen.NewConfig(
		gen.WithTarget(t.TempDir()),
		gen.WithPackage("store"),
		gen.WithDialect(dialect),
	)
	require.NoError(t, err)
	g, err := gen.NewGraph(cfg, tables...)
	require.NoError(t, err)
	return &mockHelper{graph: g}
}

// render renders f. GoString panics if the code does not format.
func render(t *testing.T, f *jen.File) string {
	t.Helper()
	require.NotNil(t, f)
	code := f.GoString()
	require.NotEmpty(t, code)
	return code
}
