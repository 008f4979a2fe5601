package gen

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})

	// Names a generated local variable must not take: the packages
	// imported by generated files and the identifiers of FromRow.
	reserved = map[string]struct{}{
		"context":  {},
		"daogen":   {},
		"decimal":  {},
		"dialect":  {},
		"err":      {},
		"fmt":      {},
		"row":      {},
		"sqlgraph": {},
		"strings":  {},
		"time":     {},
	}
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{
		"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DNS", "EOF", "GUID",
		"HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "LHS", "QPS", "RAM",
		"RHS", "RPC", "SLA", "SMTP", "SQL", "SSH", "SSO", "TCP", "TLS", "TTL",
		"UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID", "VM", "XML", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// AddAcronym registers an initialism that is rendered all upper case in
// generated member names. It must be called before generation starts.
func AddAcronym(word string) {
	word = strings.ToUpper(word)
	acronyms[word] = struct{}{}
	rules.AddAcronym(word)
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
}

func pascalWords(words []string) string {
	var b strings.Builder
	for _, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			b.WriteString(upper)
		} else {
			b.WriteString(rules.Capitalize(w))
		}
	}
	return b.String()
}

// pascal converts a column name to an exported Go identifier.
//
//	user_id => UserID
//	full-admin => FullAdmin
func pascal(s string) string {
	return pascalWords(words(s))
}

// camel converts a column name to an unexported Go identifier.
//
//	user_id => userID
func camel(s string) string {
	ws := words(s)
	if len(ws) == 0 {
		return ""
	}
	first := ws[0]
	if _, ok := acronyms[strings.ToUpper(first)]; ok {
		first = strings.ToLower(first)
	} else {
		r := []rune(first)
		r[0] = unicode.ToLower(r[0])
		first = string(r)
	}
	return first + pascalWords(ws[1:])
}

// snake converts a Go identifier to snake case.
//
//	UserIDs => user_ids
//	HTTPCode => http_code
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// Split before an upper case letter that follows a lower case one
		// ("UserInfo"), or that starts a word after an initialism ("HTTPCode").
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// receiver returns a short local name for a value of the given type.
//
//	UserQuery => uq
func receiver(s string) string {
	s = strings.Trim(s, "[]*&0123456789")
	parts := strings.Split(snake(s), "_")
	short := len(parts[0])
	for _, w := range parts[1:] {
		short = min(short, len(w))
	}
	for i := 1; i < short; i++ {
		r := parts[0][:i]
		for _, w := range parts[1:] {
			r += w[:i]
		}
		if _, ok := reserved[r]; !ok {
			s = r
			break
		}
	}
	name := strings.ToLower(s)
	if _, ok := reserved[name]; ok || token.Lookup(name).IsKeyword() {
		name = "_" + name
	}
	return name
}

// plural returns the plural form of a type name.
func plural(name string) string {
	p := rules.Pluralize(name)
	if p == name {
		p += "Slice"
	}
	return p
}

// param returns the constructor parameter name of a column, suffixed when
// it collides with a Go keyword.
func param(column string) string {
	p := camel(column)
	if token.Lookup(p).IsKeyword() {
		p += "_"
	}
	return p
}
