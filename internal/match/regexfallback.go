package match

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/sevigo/codelens/internal/rules"
)

// matchRegex applies rule's regex fallback line by line. Used when the
// language has no tree-sitter grammar wired or the rule carries no
// structural pattern at all.
func matchRegex(rule rules.Rule, source []byte) ([]Finding, error) {
	re, err := regexp2.Compile(rule.Spec.Regex, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("match: regex did not compile (should have been quarantined at load): %w", err)
	}
	re.MatchTimeout = matchTimeout

	var findings []Finding
	lines := strings.Split(string(source), "\n")
	for i, line := range lines {
		m, err := re.FindStringMatch(line)
		if err != nil {
			return nil, fmt.Errorf("match: regex evaluation on line %d: %w", i+1, err)
		}
		if m == nil {
			continue
		}
		captured := namedGroups(m)
		if failsNotEmpty(rule.Spec.NotEmpty, captured) {
			continue
		}
		findings = append(findings, Finding{
			RuleID:            rule.ID,
			Severity:          rule.Severity,
			Category:          rule.Category,
			Line:              i + 1,
			Column:            m.Index + 1,
			EndLine:           i + 1,
			EndColumn:         m.Index + m.Length + 1,
			MatchedText:       m.String(),
			CapturedVariables: captured,
			Suggestion:        rule.Note,
		})
	}
	return findings, nil
}

func namedGroups(m *regexp2.Match) map[string]string {
	groups := m.Groups()
	if len(groups) <= 1 {
		return nil
	}
	out := make(map[string]string)
	for _, g := range groups {
		if g.Name == "" || isNumeric(g.Name) {
			continue
		}
		out["$"+g.Name] = g.String()
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
