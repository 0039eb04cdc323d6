package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/repogen/compiler/gen"
	"github.com/syssam/repogen/compiler/load"
)

func TestInsertQuery(t *testing.T) {
	h := newMockHelper(t, "postgres", documentTable())
	doc := h.graph.Nodes[0]

	assert.Equal(t,
		"INSERT INTO document (id, name, url, status) VALUES ($1, $2, $3, $4) RETURNING id",
		InsertQuery(doc, h.Storage()),
	)
}

func TestInsertQuery_SQLite(t *testing.T) {
	h := newMockHelper(t, "sqlite", documentTable())
	doc := h.graph.Nodes[0]

	assert.Equal(t,
		"INSERT INTO document (id, name, url, status) VALUES (?, ?, ?, ?) RETURNING id",
		InsertQuery(doc, h.Storage()),
	)
}

func TestSelectQueries(t *testing.T) {
	h := newMockHelper(t, "postgres", documentTable(), clauseTable())
	doc, clause := h.graph.Nodes[0], h.graph.Nodes[1]

	assert.Equal(t, "SELECT id, name, url, status FROM document", SelectAllQuery(doc))
	assert.Equal(t, "SELECT id, name, url, status FROM document WHERE id = $1", SelectOneQuery(doc, h.Storage()))
	assert.Equal(t, "SELECT id, documentId, section, subsection, content FROM clause", SelectAllQuery(clause))
}

func TestSelectOneQuery_SQLite(t *testing.T) {
	h := newMockHelper(t, "sqlite", documentTable())
	assert.Equal(t, "SELECT id, name, url, status FROM document WHERE id = ?", SelectOneQuery(h.graph.Nodes[0], h.Storage()))
}

func TestQueries_SingleColumn(t *testing.T) {
	h := newMockHelper(t, "postgres", &load.Table{Name: "tag", Columns: []string{"label"}})
	tag := h.graph.Nodes[0]

	assert.Equal(t, "INSERT INTO tag (label) VALUES ($1) RETURNING label", InsertQuery(tag, h.Storage()))
	assert.Equal(t, "SELECT label FROM tag WHERE label = $1", SelectOneQuery(tag, h.Storage()))
}

func TestQueries_QuotedIdents(t *testing.T) {
	table := &load.Table{
		Name:         "order",
		Ident:        `"order"`,
		Columns:      []string{"id", "documentId"},
		ColumnIdents: []string{"id", `"documentId"`},
	}
	h := newMockHelper(t, "postgres", table)
	order := h.graph.Nodes[0]

	assert.Equal(t, `INSERT INTO "order" (id, "documentId") VALUES ($1, $2) RETURNING id`, InsertQuery(order, h.Storage()))
	assert.Equal(t, `SELECT id, "documentId" FROM "order"`, SelectAllQuery(order))
}

func TestQueries_FromSchema(t *testing.T) {
	res, err := load.Parse([]byte(`
CREATE TABLE author (
	author_id TEXT PRIMARY KEY,
	full_name TEXT NOT NULL,
	CONSTRAINT author_name UNIQUE (full_name)
);`))
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)

	cfg, err := gen.NewConfig(gen.WithTarget(t.TempDir()))
	require.NoError(t, err)
	g, err := gen.NewGraph(cfg, res.Tables...)
	require.NoError(t, err)

	author := g.Nodes[0]
	assert.Equal(t, "INSERT INTO author (author_id, full_name) VALUES ($1, $2) RETURNING author_id", InsertQuery(author, g.Storage))
	assert.Equal(t, "SELECT author_id, full_name FROM author WHERE author_id = $1", SelectOneQuery(author, g.Storage))
}
