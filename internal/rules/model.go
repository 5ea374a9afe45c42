// Package rules decodes declarative rule documents (YAML/TOML/JSON) into a
// validated Catalog, quarantining anything that fails validation or
// pattern compilation rather than dropping it silently.
package rules

import (
	"strings"

	"github.com/sevigo/codelens/internal/lang"
)

// Severity is the closed set a Rule's severity must normalise to. Unknown
// strings are a load-time quarantine, never a guessed default (resolved
// Open Question: strict severity validation).
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
	Hint    Severity = "hint"
)

// severityRank orders Severity for the ">=" comparisons severity filtering
// needs.
var severityRank = map[Severity]int{
	Hint:    0,
	Info:    1,
	Warning: 2,
	Error:   3,
}

// Rank returns s's position in the closed severity order, Hint lowest.
func (s Severity) Rank() int { return severityRank[s] }

// ParseSeverity accepts only the closed set, case-insensitively.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(strings.ToLower(s)) {
	case Error, Warning, Info, Hint:
		return Severity(strings.ToLower(s)), true
	default:
		return "", false
	}
}

// CategoryKind is the closed set of built-in rule categories, plus Custom
// for anything else the rule author names.
type CategoryKind string

const (
	Security        CategoryKind = "security"
	Correctness     CategoryKind = "correctness"
	Performance     CategoryKind = "performance"
	Maintainability CategoryKind = "maintainability"
	BestPractice    CategoryKind = "best_practice"
	CustomCategory  CategoryKind = "custom"
)

// Category is either one of the built-in kinds or a user-named custom one.
type Category struct {
	Kind CategoryKind
	Name string // only meaningful when Kind == CustomCategory
}

// ParseCategory never fails: unrecognised strings become Custom(name).
func ParseCategory(s string) Category {
	switch CategoryKind(strings.ToLower(s)) {
	case Security, Correctness, Performance, Maintainability, BestPractice:
		return Category{Kind: CategoryKind(strings.ToLower(s))}
	default:
		return Category{Kind: CustomCategory, Name: s}
	}
}

// PatternSpec is the union of a rule's match surface: a structural pattern
// (with $NAME captures and optional any: alternatives) and/or a regex
// fallback. A rule must have at least one for its source to compile.
type PatternSpec struct {
	Pattern  string   // single structural pattern
	Any      []string // alternatives; first match wins, reported once
	Matches  string   // kind-matching shorthand (node type name)
	Regex    string   // fallback when structural matching is unavailable
	NotEmpty []string // capture names whose post-filter requires a non-empty value
}

// HasStructural reports whether Spec carries any structural alternative.
func (p PatternSpec) HasStructural() bool {
	return p.Pattern != "" || len(p.Any) > 0 || p.Matches != ""
}

// Rule is one compiled, catalog-resident rule.
type Rule struct {
	ID           string
	Language     lang.Tag
	Severity     Severity
	Category     Category
	Message      string
	Note         string
	Spec         PatternSpec
	CaptureNames []string // derived from Spec, $NAME tokens in source order

	SourceName string
	Priority   int

	Quarantined      bool
	QuarantineReason string
}
