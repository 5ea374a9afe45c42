package summary

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sevigo/codelens/internal/diffmap"
	"github.com/sevigo/codelens/internal/diffmodel"
)

var testPathRe = regexp.MustCompile(`(?i)(^|/)(tests?|__tests__|spec)(/|$)|_test\.[a-z]+$|\.test\.[a-z]+$|\.spec\.[a-z]+$|^test_.*\.py$`)

var docExts = map[string]bool{
	".md": true, ".mdx": true, ".txt": true, ".rst": true, ".adoc": true,
}

// classifyPattern applies the first-match-wins heuristics, in order: test
// paths, docs-only, feature implementation, bug fix, refactor/mixed/
// unclassified.
func classifyPattern(inputs []FileInput, agg Aggregate) ChangePattern {
	if len(inputs) == 0 {
		return Unclassified
	}

	if anyTestPath(inputs) {
		return TestPattern
	}
	if allDocPaths(inputs) {
		return Docs
	}

	featureMatch := (agg.FunctionChanges+agg.MethodChanges) >= (agg.TypeChanges+agg.InterfaceChanges) && anyAdded(inputs)
	bugFixMatch := anyDeleteAddPairByName(inputs)

	switch {
	case featureMatch && bugFixMatch:
		return Mixed
	case featureMatch:
		return FeatureImplementation
	case bugFixMatch:
		return BugFix
	case totalNodes(agg) > 0:
		return Refactor
	default:
		return Unclassified
	}
}

func anyTestPath(inputs []FileInput) bool {
	for _, in := range inputs {
		if testPathRe.MatchString(filepath.ToSlash(in.Path)) {
			return true
		}
	}
	return false
}

func allDocPaths(inputs []FileInput) bool {
	for _, in := range inputs {
		if !docExts[strings.ToLower(filepath.Ext(in.Path))] {
			return false
		}
	}
	return true
}

func anyAdded(inputs []FileInput) bool {
	for _, in := range inputs {
		for _, n := range in.Nodes {
			if n.ChangeKind == diffmodel.Added {
				return true
			}
		}
	}
	return false
}

// anyDeleteAddPairByName looks for a function whose body was both deleted
// and re-added under the same name within one file: the signature of a
// fix-in-place rather than a clean addition or removal.
func anyDeleteAddPairByName(inputs []FileInput) bool {
	for _, in := range inputs {
		byName := map[string][2]bool{} // name -> (sawDelete, sawAdd)
		for _, n := range in.Nodes {
			if n.Name == "" || !isFunctionLike(n) {
				continue
			}
			state := byName[n.Name]
			switch n.ChangeKind {
			case diffmodel.Deleted:
				state[0] = true
			case diffmodel.Added, diffmodel.Modified:
				state[1] = true
			}
			byName[n.Name] = state
		}
		for _, state := range byName {
			if state[0] && state[1] {
				return true
			}
		}
	}
	return false
}

func isFunctionLike(n diffmap.AffectedNode) bool {
	switch n.Kind {
	case "function", "method":
		return true
	default:
		return false
	}
}
