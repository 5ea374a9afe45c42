package match

import (
	"strings"

	"github.com/dlclark/regexp2"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/sevigo/codelens/internal/astcache"
	"github.com/sevigo/codelens/internal/rules"
)

// matchStructural walks tree and, for every node whose trimmed source text
// matches one of alts, emits a Finding. Once a node matches, its children
// are not also tested against this rule: the outermost match wins, so a
// statement and the expression it contains are never both reported for the
// same rule.
func matchStructural(rule rules.Rule, source []byte, tree *astcache.SyntaxTree, alts []compiledAlt) ([]Finding, error) {
	root := tree.RootNode()
	if root == nil {
		return nil, nil
	}

	var findings []Finding
	var walkErr error

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil || walkErr != nil {
			return
		}
		text := string(n.Content(source))
		trimmed := strings.TrimSpace(text)

		for _, alt := range alts {
			m, err := alt.re.FindStringMatch(trimmed)
			if err != nil {
				walkErr = err
				return
			}
			if m == nil {
				continue
			}
			captured := capturedFromMatch(m, alt.captures)
			if failsNotEmpty(rule.Spec.NotEmpty, captured) {
				continue
			}
			findings = append(findings, Finding{
				RuleID:            rule.ID,
				Severity:          rule.Severity,
				Category:          rule.Category,
				Line:              int(n.StartPoint().Row) + 1,
				Column:            int(n.StartPoint().Column) + 1,
				EndLine:           int(n.EndPoint().Row) + 1,
				EndColumn:         int(n.EndPoint().Column) + 1,
				MatchedText:       text,
				CapturedVariables: captured,
				Suggestion:        rule.Note,
			})
			return // outermost match: do not descend for this rule
		}

		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	return findings, walkErr
}

func capturedFromMatch(m *regexp2.Match, captureTokens []string) map[string]string {
	if len(captureTokens) == 0 {
		return nil
	}
	out := make(map[string]string, len(captureTokens))
	for _, tok := range captureTokens {
		name := strings.TrimPrefix(tok, "$")
		g := m.GroupByName(name)
		if g == nil {
			continue
		}
		out[tok] = g.String()
	}
	return out
}

func failsNotEmpty(required []string, captured map[string]string) bool {
	for _, name := range required {
		if strings.TrimSpace(captured[name]) == "" {
			return true
		}
	}
	return false
}
