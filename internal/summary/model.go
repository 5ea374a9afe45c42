// Package summary aggregates diffmap.AffectedNodes across a GitDiff into a
// StructuralSummary: per-file one-line descriptions plus a classified
// change pattern and change scope, using first-match-wins heuristics and
// node-count thresholds.
package summary

import (
	"github.com/sevigo/codelens/internal/diffmap"
	"github.com/sevigo/codelens/internal/diffmodel"
	"github.com/sevigo/codelens/internal/lang"
)

// ChangePattern is the closed classification of what a diff, as a whole,
// appears to be doing.
type ChangePattern string

const (
	FeatureImplementation ChangePattern = "feature_implementation"
	BugFix                ChangePattern = "bug_fix"
	Refactor              ChangePattern = "refactor"
	Docs                  ChangePattern = "docs"
	TestPattern           ChangePattern = "test"
	Mixed                 ChangePattern = "mixed"
	Unclassified          ChangePattern = "unclassified"
)

// ChangeScope is the closed classification of how large a diff is, by
// affected-node count.
type ChangeScope string

const (
	Trivial  ChangeScope = "trivial"
	Minor    ChangeScope = "minor"
	Moderate ChangeScope = "moderate"
	Major    ChangeScope = "major"
)

// FileInput is the per-file material the summariser needs: the file's
// change kind and the AffectedNodes the diff/AST mapper computed for it.
type FileInput struct {
	Path       string
	Language   lang.Tag
	ChangeKind diffmodel.ChangeKind
	Nodes      []diffmap.AffectedNode
}

// PerFileSummary is the summariser's per-file output.
type PerFileSummary struct {
	Path          string
	Language      lang.Tag
	ChangeKind    diffmodel.ChangeKind
	AffectedNodes []diffmap.AffectedNode
	OneLine       string
}

// Aggregate is the cross-file rollup: counts by node kind plus the two
// closed classifications.
type Aggregate struct {
	FunctionChanges  int
	TypeChanges      int
	MethodChanges    int
	InterfaceChanges int
	OtherChanges     int
	ChangePattern    ChangePattern
	ChangeScope      ChangeScope
}

// StructuralSummary is the summariser's complete output for one review
// request.
type StructuralSummary struct {
	Files     []PerFileSummary
	Aggregate Aggregate
}
