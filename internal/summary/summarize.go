package summary

import (
	"fmt"
	"strings"

	"github.com/sevigo/codelens/internal/diffmap"
	"github.com/sevigo/codelens/internal/lang"
)

// Summarize aggregates per-file AffectedNode sets into a StructuralSummary.
func Summarize(inputs []FileInput) StructuralSummary {
	files := make([]PerFileSummary, 0, len(inputs))
	var agg Aggregate

	for _, in := range inputs {
		for _, n := range in.Nodes {
			tally(&agg, n.Kind)
		}
		files = append(files, PerFileSummary{
			Path:          in.Path,
			Language:      in.Language,
			ChangeKind:    in.ChangeKind,
			AffectedNodes: in.Nodes,
			OneLine:       oneLine(in),
		})
	}

	agg.ChangePattern = classifyPattern(inputs, agg)
	agg.ChangeScope = classifyScope(agg)

	return StructuralSummary{Files: files, Aggregate: agg}
}

func tally(agg *Aggregate, kind lang.NodeKind) {
	switch kind {
	case lang.NodeFunction:
		agg.FunctionChanges++
	case lang.NodeType:
		agg.TypeChanges++
	case lang.NodeMethod:
		agg.MethodChanges++
	case lang.NodeInterface:
		agg.InterfaceChanges++
	default:
		agg.OtherChanges++
	}
}

func oneLine(in FileInput) string {
	if len(in.Nodes) == 0 {
		return fmt.Sprintf("%s (%s)", in.Path, in.ChangeKind)
	}
	counts := map[lang.NodeKind]int{}
	for _, n := range in.Nodes {
		counts[n.Kind]++
	}
	var parts []string
	for _, kind := range []lang.NodeKind{lang.NodeFunction, lang.NodeMethod, lang.NodeType, lang.NodeInterface, lang.NodeOther} {
		if c := counts[kind]; c > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c, plural(kind, c)))
		}
	}
	return fmt.Sprintf("%s: %s", in.Path, strings.Join(parts, ", "))
}

func plural(kind lang.NodeKind, n int) string {
	s := string(kind)
	if n == 1 {
		return s
	}
	return s + "s"
}

func totalNodes(agg Aggregate) int {
	return agg.FunctionChanges + agg.TypeChanges + agg.MethodChanges + agg.InterfaceChanges + agg.OtherChanges
}

func classifyScope(agg Aggregate) ChangeScope {
	total := totalNodes(agg)
	switch {
	case total <= 1:
		return Trivial
	case total <= 5:
		return Minor
	case total <= 20:
		return Moderate
	default:
		return Major
	}
}
