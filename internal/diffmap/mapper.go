package diffmap

import (
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/sevigo/codelens/internal/astcache"
	"github.com/sevigo/codelens/internal/diffmodel"
	"github.com/sevigo/codelens/internal/lang"
)

// Map intersects cf's hunks with tree's syntax nodes and returns the set of
// AffectedNodes, smallest-enclosing-node first at each overlap (a parent
// whose body contains a more specific recognised match is suppressed; two
// sibling matches are both emitted).
//
// For a Deleted file, tree must be the pre-image's SyntaxTree and the
// mapping runs against '-' lines; for every other ChangeKind, tree is the
// post-image and the mapping runs against '+' lines.
func Map(cf diffmodel.ChangedFile, tree *astcache.SyntaxTree, meta lang.Metadata) []AffectedNode {
	if tree == nil || tree.RootNode() == nil {
		return nil
	}

	nodeChangeKind := diffmodel.Modified
	preImage := false
	switch cf.ChangeKind {
	case diffmodel.Added:
		nodeChangeKind = diffmodel.Added
	case diffmodel.Deleted:
		nodeChangeKind = diffmodel.Deleted
		preImage = true
	}

	lines := targetedLines(cf, preImage)
	if len(lines) == 0 {
		return nil
	}

	var matches []*sitter.Node
	walk(tree.RootNode(), meta, lines, &matches)

	source := tree.Source()
	names := newNameResolver(tree.Language(), meta)
	defer names.close()

	out := make([]AffectedNode, 0, len(matches))
	for _, n := range matches {
		name := extractName(n, source)
		if name == "" {
			name = names.resolve(n, source)
		}
		out = append(out, AffectedNode{
			NodeType:   n.Type(),
			Kind:       meta.ClassifyNode(n.Type()),
			Name:       name,
			ByteStart:  n.StartByte(),
			ByteEnd:    n.EndByte(),
			StartLine:  int(n.StartPoint().Row) + 1,
			EndLine:    int(n.EndPoint().Row) + 1,
			ChangeKind: nodeChangeKind,
			IsPublic:   isPublic(name),
		})
	}
	return out
}

// walk recurses depth-first, appending the deepest recognised node at each
// intersecting subtree to out, and reports whether it (or a descendant)
// already emitted a match, so an ancestor whose body merely contains a
// more specific match is never itself emitted.
func walk(n *sitter.Node, meta lang.Metadata, lines map[int]struct{}, out *[]*sitter.Node) bool {
	if n == nil {
		return false
	}

	childEmitted := false
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		if walk(n.Child(i), meta, lines, out) {
			childEmitted = true
		}
	}
	if childEmitted {
		return true
	}

	kind := meta.ClassifyNode(n.Type())
	if kind == lang.NodeOther {
		return false
	}
	start := int(n.StartPoint().Row) + 1
	end := int(n.EndPoint().Row) + 1
	if !intersectsLines(start, end, lines) {
		return false
	}

	*out = append(*out, n)
	return true
}

func targetedLines(cf diffmodel.ChangedFile, preImage bool) map[int]struct{} {
	lines := make(map[int]struct{})
	for _, h := range cf.Hunks {
		for _, l := range h.Lines {
			if preImage {
				if l.Kind == diffmodel.Deletion {
					lines[l.OldLineNo] = struct{}{}
				}
			} else if l.Kind == diffmodel.Addition {
				lines[l.NewLineNo] = struct{}{}
			}
		}
	}
	return lines
}

func intersectsLines(start, end int, lines map[int]struct{}) bool {
	for ln := range lines {
		if ln >= start && ln <= end {
			return true
		}
	}
	return false
}

// extractName best-effort pulls the declared identifier out of a
// recognised node's direct children; absent for anonymous constructs.
func extractName(n *sitter.Node, source []byte) string {
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		switch c.Type() {
		case "identifier", "field_identifier", "type_identifier", "property_identifier":
			return c.Content(source)
		}
	}
	return ""
}

func isPublic(name string) bool {
	if name == "" {
		return false
	}
	r := []rune(name)[0]
	return unicode.IsUpper(r)
}
