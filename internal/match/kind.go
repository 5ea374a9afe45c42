package match

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/sevigo/codelens/internal/astcache"
	"github.com/sevigo/codelens/internal/rules"
)

// matchKind implements the "matches" shorthand: one Finding per outermost
// node whose type equals the named node kind. A matched node's children are
// not descended into, so nested declarations of the same kind report only
// the outermost one.
func matchKind(rule rules.Rule, source []byte, tree *astcache.SyntaxTree) []Finding {
	root := tree.RootNode()
	if root == nil {
		return nil
	}

	var findings []Finding
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == rule.Spec.Matches {
			findings = append(findings, Finding{
				RuleID:      rule.ID,
				Severity:    rule.Severity,
				Category:    rule.Category,
				Line:        int(n.StartPoint().Row) + 1,
				Column:      int(n.StartPoint().Column) + 1,
				EndLine:     int(n.EndPoint().Row) + 1,
				EndColumn:   int(n.EndPoint().Column) + 1,
				MatchedText: string(n.Content(source)),
				Suggestion:  rule.Note,
			})
			return
		}
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return findings
}
