// Package load extracts table descriptors from schema files made of
// CREATE TABLE statements.
package load

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// ErrNoColumns is reported for a table whose body has no column left after
// constraint lines are removed.
var ErrNoColumns = errors.New("load: table has no columns")

// ErrColumnName is reported for a column definition that does not start
// with an identifier.
var ErrColumnName = errors.New("load: column definition does not start with a name")

// Table describes one CREATE TABLE statement.
type Table struct {
	// Name is the table name as written in the statement.
	Name string `json:"name,omitempty"`
	// Columns holds the column names in declaration order. The first
	// column identifies a row.
	Columns []string `json:"columns,omitempty"`
	// Ident and ColumnIdents hold the same names as written in the
	// statement, quotes included. Query text must use these.
	Ident        string   `json:"-"`
	ColumnIdents []string `json:"-"`
	// Statement is the verbatim statement text, terminating semicolon included.
	Statement string `json:"-"`
	// Pos is the file:line:column of the statement.
	Pos string `json:"-"`
}

// Diagnostic reports a CREATE TABLE statement that was skipped.
type Diagnostic struct {
	Pos     string
	Message string
}

func (d Diagnostic) String() string { return d.Pos + ": " + d.Message }

// Result holds the tables of a schema in source order.
type Result struct {
	Tables      []*Table
	Diagnostics []Diagnostic
}

// ParseError is returned for a table that was recognized but cannot be used.
type ParseError struct {
	Pos   string
	Table string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("load: %s: table %q: %v", e.Pos, e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error { return e.Err }

// ParseFile reads and parses the schema file at path.
func ParseFile(path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read schema: %w", err)
	}
	return parse(path, src)
}

// Parse parses schema text. Statements that start with CREATE TABLE but do
// not complete the pattern are skipped and reported as diagnostics.
func Parse(src []byte) (*Result, error) {
	return parse("", src)
}

func parse(filename string, src []byte) (*Result, error) {
	toks, err := tokenize(filename, src)
	if err != nil {
		return nil, fmt.Errorf("load: tokenize: %w", err)
	}
	var (
		res  = &Result{}
		seen = make(map[string]string)
	)
	for i := 0; i < len(toks)-1; i++ {
		if !isWord(toks[i], "CREATE") || !isWord(toks[i+1], "TABLE") {
			continue
		}
		p := &parser{toks: toks, pos: i, src: src}
		t, err := p.table()
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Pos:     position(toks[i].Pos),
				Message: err.Error(),
			})
			continue
		}
		if len(t.Columns) == 0 {
			return nil, &ParseError{Pos: t.Pos, Table: t.Name, Err: ErrNoColumns}
		}
		if prev, ok := seen[t.Name]; ok {
			return nil, &ParseError{Pos: t.Pos, Table: t.Name, Err: fmt.Errorf("already declared at %s", prev)}
		}
		seen[t.Name] = t.Pos
		res.Tables = append(res.Tables, t)
		i = p.pos - 1
	}
	return res, nil
}

// parser reads one CREATE TABLE statement starting at toks[pos].
type parser struct {
	toks []lexer.Token
	pos  int
	src  []byte
}

func (p *parser) peek() lexer.Token { return p.toks[p.pos] }

func (p *parser) next() lexer.Token {
	t := p.toks[p.pos]
	if !t.EOF() {
		p.pos++
	}
	return t
}

func (p *parser) table() (*Table, error) {
	start := p.next() // CREATE
	p.next()          // TABLE
	if isKeyword(p.peek(), "IF") {
		p.next()
		if !isKeyword(p.next(), "NOT") || !isKeyword(p.next(), "EXISTS") {
			return nil, errors.New("expected IF NOT EXISTS")
		}
	}
	nameTok := p.next()
	name, ok := identValue(nameTok)
	if !ok {
		return nil, errors.New("expected table name after CREATE TABLE")
	}
	if !isPunct(p.next(), "(") {
		return nil, fmt.Errorf("expected ( after table name %q", name)
	}
	fragments, err := p.body()
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", name, err)
	}
	end := p.next()
	if !isPunct(end, ";") {
		return nil, fmt.Errorf("table %q: expected ; after column list", name)
	}
	t := &Table{
		Name:      name,
		Ident:     nameTok.Value,
		Statement: string(p.src[start.Pos.Offset : end.Pos.Offset+len(end.Value)]),
		Pos:       position(start.Pos),
	}
	for _, frag := range fragments {
		column, ok, err := columnName(frag)
		if err != nil {
			return nil, fmt.Errorf("table %q: %s: %w", name, position(frag[0].Pos), err)
		}
		if ok {
			t.Columns = append(t.Columns, column)
			t.ColumnIdents = append(t.ColumnIdents, frag[0].Value)
		}
	}
	return t, nil
}

// body collects the comma separated definitions up to the closing
// parenthesis. Commas inside nested parentheses do not split.
func (p *parser) body() ([][]lexer.Token, error) {
	var (
		depth     = 1
		cur       []lexer.Token
		fragments [][]lexer.Token
	)
	for {
		t := p.next()
		switch {
		case t.EOF():
			return nil, errors.New("unterminated column list")
		case isPunct(t, ";"):
			return nil, errors.New("unexpected ; inside column list")
		case isPunct(t, "("):
			depth++
		case isPunct(t, ")"):
			depth--
			if depth == 0 {
				return append(fragments, cur), nil
			}
		case isPunct(t, ",") && depth == 1:
			fragments = append(fragments, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
}

// columnName returns the column declared by a definition fragment. Empty
// fragments and constraint definitions declare no column. A fragment is a
// constraint when it holds the CONSTRAINT keyword as a token of its own, so
// a column such as constraint_ref is kept. A fragment that declares a
// column must start with its name; anything else is an error.
func columnName(frag []lexer.Token) (string, bool, error) {
	if len(frag) == 0 {
		return "", false, nil
	}
	for _, t := range frag {
		if isKeyword(t, "CONSTRAINT") {
			return "", false, nil
		}
	}
	if len(frag) > 1 && frag[0].Type == tokIdent && tableConstraint[strings.ToUpper(frag[0].Value)] {
		// PRIMARY KEY (...), UNIQUE (...), CHECK (...) and friends. A column
		// that happens to be named "check" is followed by its type instead.
		if second := frag[1]; isPunct(second, "(") || isKeyword(second, "KEY") || isKeyword(second, "INDEX") {
			return "", false, nil
		}
	}
	name, ok := identValue(frag[0])
	if !ok {
		return "", false, fmt.Errorf("%w: %q", ErrColumnName, frag[0].Value)
	}
	return name, true, nil
}

func position(pos lexer.Position) string {
	if pos.Filename == "" {
		return fmt.Sprintf("%d:%d", pos.Line, pos.Column)
	}
	return fmt.Sprintf("%s:%d:%d", pos.Filename, pos.Line, pos.Column)
}
