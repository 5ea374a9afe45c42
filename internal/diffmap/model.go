// Package diffmap intersects the hunks of a ChangedFile with the syntax
// nodes of its SyntaxTree to produce AffectedNodes. Node-kind
// classification is delegated to the lang package's per-language node-type
// tables.
package diffmap

import (
	"github.com/sevigo/codelens/internal/diffmodel"
	"github.com/sevigo/codelens/internal/lang"
)

// AffectedNode is a syntax node whose line range intersects a changed line
// in a diff hunk.
type AffectedNode struct {
	NodeType   string
	Kind       lang.NodeKind
	Name       string
	ByteStart  uint32
	ByteEnd    uint32
	StartLine  int // 1-based, inclusive
	EndLine    int // 1-based, inclusive
	ChangeKind diffmodel.ChangeKind
	IsPublic   bool
}
