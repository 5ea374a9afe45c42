package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/codelens/internal/diffmodel"
	"github.com/sevigo/codelens/internal/match"
	"github.com/sevigo/codelens/internal/rules"
	"github.com/sevigo/codelens/internal/summary"
)

func testSummary() *summary.StructuralSummary {
	return &summary.StructuralSummary{
		Files: []summary.PerFileSummary{
			{Path: "main.go", ChangeKind: diffmodel.Modified, OneLine: "modified 1 function"},
		},
		Aggregate: summary.Aggregate{
			FunctionChanges: 1,
			ChangePattern:   summary.Refactor,
			ChangeScope:     summary.Trivial,
		},
	}
}

func testFindings() []match.Finding {
	return []match.Finding{
		{RuleID: "no-println", Severity: rules.Info, FilePath: "main.go", Line: 3, Column: 2, MatchedText: `println!("x")`},
		{RuleID: "sql-injection", Severity: rules.Error, FilePath: "db.go", Line: 10, Column: 1},
		{RuleID: "unchecked-err", Severity: rules.Warning, FilePath: "db.go", Line: 12, Column: 5},
	}
}

func TestAssembleSectionOrder(t *testing.T) {
	a, err := NewAssembler()
	require.NoError(t, err)

	out, err := a.Assemble(Inputs{
		WorkItems: []string{"PROJ-1: add widget endpoint"},
		DiffText:  "diff --git a/main.go b/main.go",
		Summary:   testSummary(),
		Findings:  testFindings(),
	})
	require.NoError(t, err)

	workItems := strings.Index(out, "## Work Items")
	diff := strings.Index(out, "## Diff")
	structural := strings.Index(out, "## Structural Summary")
	findings := strings.Index(out, "## Findings")

	require.True(t, workItems >= 0 && diff >= 0 && structural >= 0 && findings >= 0, "all sections present:\n%s", out)
	assert.Less(t, workItems, diff)
	assert.Less(t, diff, structural)
	assert.Less(t, structural, findings)
}

func TestAssembleGroupsFindingsBySeverityDescending(t *testing.T) {
	a, err := NewAssembler()
	require.NoError(t, err)

	out, err := a.Assemble(Inputs{Findings: testFindings()})
	require.NoError(t, err)

	errIdx := strings.Index(out, "### error")
	warnIdx := strings.Index(out, "### warning")
	infoIdx := strings.Index(out, "### info")
	require.True(t, errIdx >= 0 && warnIdx >= 0 && infoIdx >= 0, out)
	assert.Less(t, errIdx, warnIdx)
	assert.Less(t, warnIdx, infoIdx)
	assert.Contains(t, out, "db.go:10:1 `sql-injection`")
}

func TestAssembleTruncatesFindingsToBudget(t *testing.T) {
	a, err := NewAssembler()
	require.NoError(t, err)

	out, err := a.Assemble(Inputs{Findings: testFindings(), MaxFindings: 2})
	require.NoError(t, err)

	// Budget keeps the two highest-severity findings and reports the rest.
	assert.Contains(t, out, "sql-injection")
	assert.Contains(t, out, "unchecked-err")
	assert.NotContains(t, out, "no-println")
	assert.Contains(t, out, "(1 further findings omitted)")
}

func TestAssembleEmptyInputs(t *testing.T) {
	a, err := NewAssembler()
	require.NoError(t, err)

	out, err := a.Assemble(Inputs{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestAssembleIsDeterministic(t *testing.T) {
	a, err := NewAssembler()
	require.NoError(t, err)

	in := Inputs{
		WorkItems: []string{"PROJ-2: fix login"},
		DiffText:  "diff --git a/x b/x",
		Summary:   testSummary(),
		Findings:  testFindings(),
	}
	first, err := a.Assemble(in)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := a.Assemble(in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
