// Package query serves static, version-pinned per-language pattern queries
// embedded at build time. Nothing is fetched at runtime; a missing query is
// an expected answer, not an error.
package query

import (
	"embed"
	"fmt"

	"github.com/sevigo/codelens/internal/lang"
)

//go:embed queries/*.scm
var queryFS embed.FS

// Type is the closed set of query kinds a language may provide.
type Type string

const (
	Highlights Type = "highlights"
	Locals     Type = "locals"
	Injections Type = "injections"
)

// Get returns the embedded query text for (tag, queryType), or ("", false)
// if none is embedded. Absence is not an error: callers fall back to a
// generic identifier-only query.
func Get(tag lang.Tag, t Type) (string, bool) {
	name := fmt.Sprintf("queries/%s.%s.scm", tag, t)
	data, err := queryFS.ReadFile(name)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// GenericIdentifierQuery is the fallback used when Get returns false: a
// query that only captures bare identifiers, valid for any tree-sitter
// grammar because `identifier` is present in every grammar codelens wires.
const GenericIdentifierQuery = `(identifier) @identifier`
