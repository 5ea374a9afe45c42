// Package match evaluates one compiled Rule against one SourceFile,
// producing an ordered sequence of Findings. Structural patterns are
// matched by translating the pattern's $NAME captures and "..." ellipsis
// into an anchored dlclark/regexp2 expression evaluated against each
// syntax node's own source text: a tree-bounded regex rather than a full
// tree-sitter query compiler, which reuses one regex engine for both the
// structural and fallback paths while keeping capture-variable semantics
// (repeat-binding, ellipsis) expressible. regexp2 rather than the standard
// library because MatchTimeout keeps a pathological pattern from hanging a
// scan.
package match

import "github.com/sevigo/codelens/internal/rules"

// Finding is one match of a Rule against a SourceFile.
type Finding struct {
	RuleID            string
	Severity          rules.Severity
	Category          rules.Category
	FilePath          string
	Line              int
	Column            int
	EndLine           int
	EndColumn         int
	MatchedText       string
	CapturedVariables map[string]string
	Suggestion        string
}
