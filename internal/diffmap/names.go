package diffmap

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/sevigo/codelens/internal/lang"
	"github.com/sevigo/codelens/internal/query"
)

// nameResolver recovers a declaration's name when it is not a direct child
// of the declaration node (C/C++ declarators, nested TS class members). It
// runs the language's embedded highlights query scoped to the node, falling
// back to the generic identifier-only query when no highlights query is
// embedded or the pinned query does not compile against this grammar build.
// The compiled query is shared across one Map call.
type nameResolver struct {
	tag     lang.Tag
	grammar *sitter.Language
	q       *sitter.Query
	tried   bool
}

func newNameResolver(tag lang.Tag, meta lang.Metadata) *nameResolver {
	return &nameResolver{tag: tag, grammar: meta.Grammar()}
}

func (r *nameResolver) resolve(n *sitter.Node, source []byte) string {
	if r.grammar == nil {
		return ""
	}
	if !r.tried {
		r.tried = true
		text, ok := query.Get(r.tag, query.Highlights)
		if !ok {
			text = query.GenericIdentifierQuery
		}
		q, err := sitter.NewQuery([]byte(text), r.grammar)
		if err != nil {
			q, err = sitter.NewQuery([]byte(query.GenericIdentifierQuery), r.grammar)
			if err != nil {
				return ""
			}
		}
		r.q = q
	}
	if r.q == nil {
		return ""
	}

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(r.q, n)
	for {
		m, ok := qc.NextMatch()
		if !ok {
			return ""
		}
		for _, c := range m.Captures {
			// Only identifier-shaped captures name anything; whole-node
			// captures (comments, interface bodies) do not.
			if !strings.HasSuffix(c.Node.Type(), "identifier") {
				continue
			}
			return c.Node.Content(source)
		}
	}
}

func (r *nameResolver) close() {
	if r.q != nil {
		r.q.Close()
	}
}
