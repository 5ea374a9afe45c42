package match

import (
	"context"
	"testing"
	"time"

	"github.com/sevigo/codelens/internal/astcache"
	"github.com/sevigo/codelens/internal/lang"
	"github.com/sevigo/codelens/internal/rules"
)

const sampleRust = `fn main() {
    println!("x");
    let y = 2;
}
`

func parseRust(t *testing.T, src string) *astcache.SyntaxTree {
	t.Helper()
	cache := astcache.New(4)
	sf := astcache.NewSourceFile("main.rs", []byte(src), lang.Rust, time.Now())
	tree, err := cache.Parse(context.Background(), sf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tree
}

func TestMatch_StructuralCapture(t *testing.T) {
	tree := parseRust(t, sampleRust)
	rule := rules.Rule{
		ID:       "avoid-println",
		Language: lang.Rust,
		Severity: rules.Info,
		Category: rules.ParseCategory("best_practice"),
		Spec: rules.PatternSpec{
			Pattern: `println!($ARGS)`,
		},
	}

	findings, err := Match(rule, []byte(sampleRust), lang.Rust, tree)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d: %+v", len(findings), findings)
	}
	f := findings[0]
	if f.CapturedVariables["$ARGS"] != `"x"` {
		t.Errorf("expected $ARGS to capture \"x\", got %q", f.CapturedVariables["$ARGS"])
	}
	if f.Line != 2 {
		t.Errorf("expected match on line 2, got %d", f.Line)
	}
}

func TestMatch_RegexFallback(t *testing.T) {
	rule := rules.Rule{
		ID:       "todo-marker",
		Language: lang.Markdown,
		Severity: rules.Hint,
		Spec: rules.PatternSpec{
			Regex: `TODO`,
		},
	}
	src := []byte("line one\nTODO: fix this\nline three\n")

	findings, err := Match(rule, src, lang.Markdown, nil)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Line != 2 {
		t.Errorf("expected line 2, got %d", findings[0].Line)
	}
}

func TestMatch_QuarantinedRuleYieldsNothing(t *testing.T) {
	rule := rules.Rule{ID: "bad", Quarantined: true, Spec: rules.PatternSpec{Regex: "x"}}
	findings, err := Match(rule, []byte("xxx"), lang.Go, nil)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if findings != nil {
		t.Errorf("expected no findings for quarantined rule, got %+v", findings)
	}
}

func TestMatch_NotEmptyPostFilterDropsMatch(t *testing.T) {
	src := "fn main() {\n    println!(  );\n}\n"
	tree := parseRust(t, src)
	rule := rules.Rule{
		ID:       "avoid-empty-println",
		Language: lang.Rust,
		Severity: rules.Info,
		Spec: rules.PatternSpec{
			Pattern:  `println!($ARGS)`,
			NotEmpty: []string{"$ARGS"},
		},
	}
	findings, err := Match(rule, []byte(src), lang.Rust, tree)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected post-filter to drop the whitespace-only-args match, got %+v", findings)
	}
}

func TestMatch_RepeatedCaptureMustBindIdentically(t *testing.T) {
	tree := parseRust(t, "fn main() {\n    let x = foo(a, a);\n}\n")
	rule := rules.Rule{
		ID:       "self-compare",
		Language: lang.Rust,
		Severity: rules.Warning,
		Spec: rules.PatternSpec{
			Pattern: `foo($X, $X)`,
		},
	}
	findings, err := Match(rule, []byte("fn main() {\n    let x = foo(a, a);\n}\n"), lang.Rust, tree)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected the repeated-capture pattern to match foo(a, a), got %d findings", len(findings))
	}
}

func TestMatch_AnyAlternationReportsOncePerMatch(t *testing.T) {
	src := "fn main() {\n    println!(\"x\");\n}\n"
	tree := parseRust(t, src)
	rule := rules.Rule{
		ID:       "no-debug-output",
		Language: lang.Rust,
		Severity: rules.Info,
		Spec: rules.PatternSpec{
			Any: []string{`println!($ARGS)`, `print!($ARGS)`, `dbg!($ARGS)`},
		},
	}

	findings, err := Match(rule, []byte(src), lang.Rust, tree)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	// One alternative matches; the others must not produce extra findings.
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding for the matching alternative, got %d: %+v", len(findings), findings)
	}
}

func TestMatch_PureFunctionOfInputs(t *testing.T) {
	src := []byte(sampleRust)
	tree := parseRust(t, sampleRust)
	rule := rules.Rule{
		ID:       "avoid-println",
		Language: lang.Rust,
		Severity: rules.Info,
		Spec:     rules.PatternSpec{Pattern: `println!($ARGS)`},
	}

	first, err := Match(rule, src, lang.Rust, tree)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Match(rule, src, lang.Rust, tree)
		if err != nil {
			t.Fatalf("Match: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: finding count changed: %d vs %d", i, len(again), len(first))
		}
		for j := range again {
			if again[j].Line != first[j].Line || again[j].Column != first[j].Column ||
				again[j].MatchedText != first[j].MatchedText {
				t.Fatalf("run %d: finding %d differs: %+v vs %+v", i, j, again[j], first[j])
			}
		}
	}
}

func TestMatch_KindShorthand(t *testing.T) {
	tree := parseRust(t, sampleRust)
	rule := rules.Rule{
		ID:       "flag-functions",
		Language: lang.Rust,
		Severity: rules.Hint,
		Spec: rules.PatternSpec{
			Matches: "function_item",
		},
	}

	findings, err := Match(rule, []byte(sampleRust), lang.Rust, tree)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding for the single fn, got %d: %+v", len(findings), findings)
	}
	if findings[0].Line != 1 {
		t.Errorf("expected match at line 1, got %d", findings[0].Line)
	}
}
