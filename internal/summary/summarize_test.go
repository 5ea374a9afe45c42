package summary

import (
	"testing"

	"github.com/sevigo/codelens/internal/diffmap"
	"github.com/sevigo/codelens/internal/diffmodel"
	"github.com/sevigo/codelens/internal/lang"
)

func TestSummarize_TestPathWins(t *testing.T) {
	inputs := []FileInput{
		{
			Path:       "internal/foo/foo_test.go",
			ChangeKind: diffmodel.Modified,
			Nodes: []diffmap.AffectedNode{
				{Kind: lang.NodeFunction, Name: "TestFoo", ChangeKind: diffmodel.Added},
			},
		},
	}
	s := Summarize(inputs)
	if s.Aggregate.ChangePattern != TestPattern {
		t.Errorf("expected TestPattern, got %s", s.Aggregate.ChangePattern)
	}
}

func TestSummarize_DocsOnly(t *testing.T) {
	inputs := []FileInput{
		{Path: "README.md", ChangeKind: diffmodel.Modified},
		{Path: "docs/guide.md", ChangeKind: diffmodel.Modified},
	}
	s := Summarize(inputs)
	if s.Aggregate.ChangePattern != Docs {
		t.Errorf("expected Docs, got %s", s.Aggregate.ChangePattern)
	}
}

func TestSummarize_FeatureImplementation(t *testing.T) {
	inputs := []FileInput{
		{
			Path:       "internal/foo/foo.go",
			ChangeKind: diffmodel.Added,
			Nodes: []diffmap.AffectedNode{
				{Kind: lang.NodeFunction, Name: "NewFoo", ChangeKind: diffmodel.Added},
			},
		},
	}
	s := Summarize(inputs)
	if s.Aggregate.ChangePattern != FeatureImplementation {
		t.Errorf("expected FeatureImplementation, got %s", s.Aggregate.ChangePattern)
	}
	if s.Aggregate.ChangeScope != Trivial {
		t.Errorf("expected Trivial scope for 1 node, got %s", s.Aggregate.ChangeScope)
	}
}

func TestSummarize_BugFix(t *testing.T) {
	inputs := []FileInput{
		{
			Path:       "internal/foo/foo.go",
			ChangeKind: diffmodel.Modified,
			Nodes: []diffmap.AffectedNode{
				{Kind: lang.NodeFunction, Name: "Parse", ChangeKind: diffmodel.Deleted},
				{Kind: lang.NodeFunction, Name: "Parse", ChangeKind: diffmodel.Modified},
			},
		},
	}
	s := Summarize(inputs)
	if s.Aggregate.ChangePattern != BugFix {
		t.Errorf("expected BugFix, got %s", s.Aggregate.ChangePattern)
	}
}

func TestSummarize_Unclassified(t *testing.T) {
	inputs := []FileInput{
		{Path: "internal/foo/foo.go", ChangeKind: diffmodel.Modified},
	}
	s := Summarize(inputs)
	if s.Aggregate.ChangePattern != Unclassified {
		t.Errorf("expected Unclassified, got %s", s.Aggregate.ChangePattern)
	}
}

func TestSummarize_ScopeThresholds(t *testing.T) {
	mk := func(n int) []diffmap.AffectedNode {
		nodes := make([]diffmap.AffectedNode, n)
		for i := range nodes {
			nodes[i] = diffmap.AffectedNode{Kind: lang.NodeFunction, ChangeKind: diffmodel.Modified}
		}
		return nodes
	}
	cases := []struct {
		n     int
		scope ChangeScope
	}{
		{1, Trivial},
		{5, Minor},
		{20, Moderate},
		{21, Major},
	}
	for _, c := range cases {
		inputs := []FileInput{{Path: "f.go", ChangeKind: diffmodel.Modified, Nodes: mk(c.n)}}
		s := Summarize(inputs)
		if s.Aggregate.ChangeScope != c.scope {
			t.Errorf("n=%d: expected scope %s, got %s", c.n, c.scope, s.Aggregate.ChangeScope)
		}
	}
}
