package load

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// ddlLexer tokenizes schema text. Comments and whitespace are kept as tokens
// so that statement text can be sliced back out of the source by offset.
var ddlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `--[^\n]*|/\*(?s:.*?)\*/`},
	{Name: "String", Pattern: `'(?:[^']|'')*'`},
	{Name: "QuotedIdent", Pattern: `"(?:[^"]|"")*"|` + "`[^`]*`"},
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_$]*`},
	{Name: "Number", Pattern: `[0-9]+(?:\.[0-9]+)?`},
	{Name: "Punct", Pattern: `[(),;.]`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Other", Pattern: `.`},
})

var (
	symbols         = ddlLexer.Symbols()
	tokComment      = symbols["Comment"]
	tokQuotedIdent  = symbols["QuotedIdent"]
	tokIdent        = symbols["Ident"]
	tokPunct        = symbols["Punct"]
	tokWhitespace   = symbols["Whitespace"]
	tableConstraint = map[string]bool{
		"PRIMARY": true,
		"FOREIGN": true,
		"UNIQUE":  true,
		"CHECK":   true,
		"EXCLUDE": true,
	}
)

// tokenize returns the significant tokens of src (no comments, no whitespace),
// terminated by an EOF token.
func tokenize(filename string, src []byte) ([]lexer.Token, error) {
	lex, err := ddlLexer.LexString(filename, string(src))
	if err != nil {
		return nil, err
	}
	all, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}
	toks := make([]lexer.Token, 0, len(all))
	for _, t := range all {
		if t.Type == tokWhitespace || t.Type == tokComment {
			continue
		}
		toks = append(toks, t)
	}
	return toks, nil
}

// isWord reports whether t is the bare identifier w, compared case-sensitively.
func isWord(t lexer.Token, w string) bool {
	return t.Type == tokIdent && t.Value == w
}

// isKeyword reports whether t is the bare identifier w in any letter case.
func isKeyword(t lexer.Token, w string) bool {
	return t.Type == tokIdent && strings.EqualFold(t.Value, w)
}

func isPunct(t lexer.Token, p string) bool {
	return t.Type == tokPunct && t.Value == p
}

// identValue returns the identifier carried by t, unquoting quoted identifiers.
func identValue(t lexer.Token) (string, bool) {
	switch t.Type {
	case tokIdent:
		return t.Value, true
	case tokQuotedIdent:
		v := t.Value[1 : len(t.Value)-1]
		if t.Value[0] == '"' {
			v = strings.ReplaceAll(v, `""`, `"`)
		}
		return v, v != ""
	default:
		return "", false
	}
}
