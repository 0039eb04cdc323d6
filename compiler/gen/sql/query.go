package sql

import (
	"strings"

	"github.com/syssam/repogen/compiler/gen"
)

// InsertQuery returns the statement that stores one row of t and returns
// its identifying column. Arguments bind in column declaration order.
//
//	INSERT INTO document (id, name, url, status) VALUES ($1, $2, $3, $4) RETURNING id
func InsertQuery(t *gen.Type, s *gen.Storage) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(t.TableIdent())
	b.WriteString(" (")
	b.WriteString(columnList(t))
	b.WriteString(") VALUES (")
	for i := range t.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.Bind(i + 1))
	}
	b.WriteString(") RETURNING ")
	b.WriteString(t.ID.Ident)
	return b.String()
}

// SelectOneQuery returns the statement that reads the row of t whose
// identifying column equals the only argument.
//
//	SELECT id, name, url, status FROM document WHERE id = $1
func SelectOneQuery(t *gen.Type, s *gen.Storage) string {
	return SelectAllQuery(t) + " WHERE " + t.ID.Ident + " = " + s.Bind(1)
}

// SelectAllQuery returns the statement that reads all rows of t. Row order
// is left to the database.
//
//	SELECT id, name, url, status FROM document
func SelectAllQuery(t *gen.Type) string {
	return "SELECT " + columnList(t) + " FROM " + t.TableIdent()
}

func columnList(t *gen.Type) string {
	return strings.Join(t.ColumnIdents(), ", ")
}
