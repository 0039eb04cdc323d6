package gen

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/syssam/repogen/compiler/load"
)

// The following types and their exported methods are used by the dialect
// generators to render the artifacts.
type (
	// Graph holds the nodes (types) of the loaded schema and the
	// configuration they are rendered with.
	Graph struct {
		*Config
		// Nodes are the types of the graph, in schema order.
		Nodes []*Type
	}

	// Type represents one table of the schema and the names the generated
	// code uses for it.
	Type struct {
		*Config
		table *load.Table
		// Name holds the entity type name.
		Name string
		// ID holds the identifying column, the first one declared.
		ID *Column
		// Columns holds all columns in declaration order.
		Columns []*Column
	}

	// Column holds the information of a table column.
	Column struct {
		// Name is the column name in the schema.
		Name string
		// Ident is the column name as written in the statement.
		Ident string
		// Index is the position of the column in the table.
		Index int
		// StructField is the entity field name.
		StructField string
		// Param is the parameter name used for this column.
		Param string
	}
)

// NewGraph creates a new graph from the given tables. The configuration is
// normalized before the types are built.
func NewGraph(c *Config, tables ...*load.Table) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	if err := c.Normalize(); err != nil {
		return nil, err
	}
	g := &Graph{Config: c, Nodes: make([]*Type, 0, len(tables))}
	for _, t := range tables {
		typ, err := NewType(c, t)
		if err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, typ)
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// NewType creates a new type and its columns from the given table.
func NewType(c *Config, t *load.Table) (*Type, error) {
	if t == nil || t.Name == "" {
		return nil, NewSchemaError("", "", "missing table name", nil)
	}
	if len(t.Columns) == 0 {
		return nil, NewSchemaError(t.Name, "", "table has no columns", load.ErrNoColumns)
	}
	typ := &Type{
		Config:  c,
		table:   t,
		Name:    entityName(c, t.Name),
		Columns: make([]*Column, len(t.Columns)),
	}
	if !isIdent(typ.Name) || !token.IsExported(typ.Name) {
		return nil, NewSchemaError(t.Name, "", fmt.Sprintf("entity name %q is not a valid exported Go identifier", typ.Name), nil)
	}
	var (
		fields = make(map[string]string, len(t.Columns))
		params = make(map[string]string, len(t.Columns))
	)
	for i, name := range t.Columns {
		col := &Column{
			Name:        name,
			Ident:       name,
			Index:       i,
			StructField: pascal(name),
			Param:       paramName(name),
		}
		if i < len(t.ColumnIdents) && t.ColumnIdents[i] != "" {
			col.Ident = t.ColumnIdents[i]
		}
		if !isIdent(col.StructField) || !token.IsExported(col.StructField) || !isIdent(col.Param) {
			return nil, NewSchemaError(t.Name, name, "column name does not map to a Go identifier", nil)
		}
		if prev, ok := fields[col.StructField]; ok {
			return nil, NewSchemaError(t.Name, name, fmt.Sprintf("field %s is also declared by column %q", col.StructField, prev), nil)
		}
		if prev, ok := params[col.Param]; ok {
			return nil, NewSchemaError(t.Name, name, fmt.Sprintf("parameter %s is also used by column %q", col.Param, prev), nil)
		}
		fields[col.StructField] = name
		params[col.Param] = name
		typ.Columns[i] = col
	}
	typ.ID = typ.Columns[0]
	if !isIdent(typ.ParamName()) {
		return nil, NewSchemaError(t.Name, "", "table name does not map to a Go identifier", nil)
	}
	return typ, nil
}

func entityName(c *Config, table string) string {
	if c.Naming == NamingCapitalize {
		return capitalize(table)
	}
	return pascal(table)
}

// validate checks that the generated identifiers and files of all nodes
// are distinct.
func (g *Graph) validate() error {
	var (
		idents = make(map[string]string)
		files  = make(map[string]string)
	)
	for _, name := range []string{"Repository", "UnimplementedRepository", "ErrNotImplemented", g.Storage.AdapterName(), "New" + g.Storage.AdapterName()} {
		idents[name] = ""
	}
	for _, name := range g.graphFiles() {
		files[name] = ""
	}
	claim := func(t *Type, m map[string]string, name, kind string) error {
		prev, ok := m[name]
		switch {
		case !ok:
			m[name] = t.Table()
			return nil
		case prev == "":
			return NewSchemaError(t.Table(), "", fmt.Sprintf("%s %s is reserved by the generated code", kind, name), nil)
		default:
			return NewSchemaError(t.Table(), "", fmt.Sprintf("%s %s is also generated for table %q", kind, name, prev), nil)
		}
	}
	for _, t := range g.Nodes {
		if strings.HasSuffix(t.FileName(), "_test.go") {
			return NewSchemaError(t.Table(), "", "table name maps to a test file", nil)
		}
		if err := claim(t, files, t.FileName(), "file"); err != nil {
			return err
		}
		for _, name := range []string{t.Name, t.ConstructorName(), t.AddName(), t.GetName(), t.ListName()} {
			if err := claim(t, idents, name, "identifier"); err != nil {
				return err
			}
		}
	}
	return nil
}

// Tables returns the table descriptors of the graph, in schema order.
func (g *Graph) Tables() []*load.Table {
	tables := make([]*load.Table, len(g.Nodes))
	for i, n := range g.Nodes {
		tables[i] = n.table
	}
	return tables
}

// Table returns the table name of the type.
func (t Type) Table() string { return t.table.Name }

// TableIdent returns the table name as written in the statement.
func (t Type) TableIdent() string {
	if t.table.Ident != "" {
		return t.table.Ident
	}
	return t.table.Name
}

// Statement returns the CREATE TABLE statement of the type.
func (t Type) Statement() string { return t.table.Statement }

// Pos returns the position of the statement in the schema file.
func (t Type) Pos() string { return t.table.Pos }

// AddName returns the name of the create method.
func (t Type) AddName() string { return "Add" + t.Name }

// GetName returns the name of the get-one method.
func (t Type) GetName() string { return "Get" + t.Name }

// ListName returns the name of the get-all method.
func (t Type) ListName() string { return "Get" + plural(t.Plural, t.Name) }

// ConstructorName returns the name of the entity constructor.
func (t Type) ConstructorName() string { return "New" + t.Name }

// FileName returns the name of the entity file.
func (t Type) FileName() string { return strings.ToLower(t.Table()) + ".go" }

// ParamName returns the parameter name holding an entity of this type.
func (t Type) ParamName() string { return paramName(t.Table()) }

// ColumnIdents returns the column names as they appear in query text.
func (t Type) ColumnIdents() []string {
	idents := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		idents[i] = c.Ident
	}
	return idents
}

// EntityFields returns the columns in entity field order: the
// non-identifying columns as declared, then the identifying column.
func (t Type) EntityFields() []*Column {
	fields := make([]*Column, 0, len(t.Columns))
	fields = append(fields, t.Columns[1:]...)
	return append(fields, t.ID)
}

// IsID reports whether the column identifies a row.
func (c Column) IsID() bool { return c.Index == 0 }
