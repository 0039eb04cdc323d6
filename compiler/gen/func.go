package gen

import (
	"go/token"
	"go/types"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})

	// reserved holds identifiers used as locals, receivers or package
	// names by the generated code. Parameters never take these names.
	reserved = map[string]struct{}{
		"a":       {},
		"conn":    {},
		"context": {},
		"ctx":     {},
		"err":     {},
		"errors":  {},
		"query":   {},
		"result":  {},
		"row":     {},
		"rows":    {},
		"sql":     {},
		"uuid":    {},
	}
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Add common initialisms from golint and more.
	for _, w := range []string{
		"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DNS", "EOF", "GB", "GUID",
		"HCL", "HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "KB", "LHS", "MAC",
		"MB", "QPS", "RAM", "RHS", "RPC", "SLA", "SMTP", "SQL", "SSH", "SSO",
		"TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID",
		"VM", "XML", "XMPP", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// AddAcronym registers a word that pascal and camel render in upper case.
func AddAcronym(word string) {
	word = strings.ToUpper(word)
	acronyms[word] = struct{}{}
	rules.AddAcronym(word)
}

// isSeparator reports whether r splits words in a schema name.
func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

// words splits s into its lower-cased snake words.
func words(s string) []string {
	return strings.FieldsFunc(snake(s), isSeparator)
}

func pascalWords(words []string) string {
	var b strings.Builder
	for _, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			b.WriteString(upper)
		} else {
			b.WriteString(cases.Title(language.Und, cases.NoLower).String(w))
		}
	}
	return b.String()
}

// pascal converts the given name into a PascalCase.
//
//	user_info  => UserInfo
//	full_name  => FullName
//	user_id    => UserID
//	documentId => DocumentID
func pascal(s string) string {
	return pascalWords(words(s))
}

// camel converts the given name into a camelCase.
//
//	user_info  => userInfo
//	full_name  => fullName
//	user_id    => userID
//	full-admin => fullAdmin
func camel(s string) string {
	ws := words(s)
	if len(ws) == 0 {
		return ""
	}
	return ws[0] + pascalWords(ws[1:])
}

// snake converts the given struct or field name into a snake_case.
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
func snake(s string) string {
	var (
		j int
		b strings.Builder
		r = []rune(s)
	)
	for i, c := range r {
		// Put '_' if it is not a start or end of a word, current letter is uppercase,
		// and previous is lowercase (cases like: "UserInfo"), or next letter is also
		// a lowercase and previous letter is not "_".
		if i > 0 && i < len(r)-1 && unicode.IsUpper(c) {
			if unicode.IsLower(r[i-1]) ||
				j != i-1 && unicode.IsLower(r[i+1]) && unicode.IsLetter(r[i-1]) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(c))
	}
	return b.String()
}

// capitalize upper-cases the first letter of s and keeps the rest as is.
//
//	user_profile => User_profile
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// plural returns the plural form of an entity name.
func plural(mode, name string) string {
	if mode == PluralInflect {
		if p := rules.Pluralize(name); p != name {
			return p
		}
	}
	return name + "s"
}

// paramName returns a parameter name for s that does not shadow anything
// the generated function bodies refer to.
func paramName(s string) string {
	name := camel(s)
	if name == "" {
		return name
	}
	_, local := reserved[name]
	if local || token.IsKeyword(name) || types.Universe.Lookup(name) != nil {
		name += "Arg"
	}
	return name
}

// isIdent reports whether s is a valid exported or unexported Go identifier.
func isIdent(s string) bool {
	return token.IsIdentifier(s)
}
