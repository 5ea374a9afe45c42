package match

import (
	"sort"

	"github.com/sevigo/codelens/internal/astcache"
	"github.com/sevigo/codelens/internal/lang"
	"github.com/sevigo/codelens/internal/rules"
)

// Match evaluates rule against source, returning an ordered (line, column)
// sequence of Findings. tree may be nil when no grammar is wired for the
// language; a quarantined rule always yields no findings. Pure function of
// its inputs: no side effects, no shared state across calls.
func Match(rule rules.Rule, source []byte, tag lang.Tag, tree *astcache.SyntaxTree) ([]Finding, error) {
	if rule.Quarantined {
		return nil, nil
	}

	useStructural := rule.Spec.HasStructural() && tree != nil && !tree.Partial() && lang.HasGrammar(tag)

	var findings []Finding
	var err error

	if useStructural {
		if rule.Spec.Matches != "" {
			findings = append(findings, matchKind(rule, source, tree)...)
		}
		patterns := rule.Spec.Any
		if rule.Spec.Pattern != "" {
			patterns = append([]string{rule.Spec.Pattern}, patterns...)
		}
		if len(patterns) > 0 {
			alts, cerr := compileAlternatives(patterns)
			if cerr != nil {
				// A pattern that does not compile structurally falls back to
				// the rule's regex form when one exists.
				if rule.Spec.Regex == "" {
					return nil, cerr
				}
				return matchSortedRegex(rule, source)
			}
			structural, serr := matchStructural(rule, source, tree, alts)
			if serr != nil {
				return nil, serr
			}
			findings = append(findings, structural...)
		}
	} else if rule.Spec.Regex != "" {
		findings, err = matchRegex(rule, source)
		if err != nil {
			return nil, err
		}
	}

	sortFindings(findings)
	return findings, nil
}

func matchSortedRegex(rule rules.Rule, source []byte) ([]Finding, error) {
	findings, err := matchRegex(rule, source)
	if err != nil {
		return nil, err
	}
	sortFindings(findings)
	return findings, nil
}

func sortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Line != findings[j].Line {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].Column < findings[j].Column
	})
}
