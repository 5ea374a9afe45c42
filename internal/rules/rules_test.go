package rules

import (
	"testing"

	"github.com/sevigo/codelens/internal/lang"
)

func TestParseSeverity(t *testing.T) {
	cases := []struct {
		in     string
		want   Severity
		wantOK bool
	}{
		{"error", Error, true},
		{"WARNING", Warning, true},
		{"Info", Info, true},
		{"hint", Hint, true},
		{"critical", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ParseSeverity(c.in)
		if ok != c.wantOK || (ok && got != c.want) {
			t.Errorf("ParseSeverity(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.wantOK)
		}
	}
}

func TestParseCategory_Custom(t *testing.T) {
	c := ParseCategory("fancy-lint")
	if c.Kind != CustomCategory || c.Name != "fancy-lint" {
		t.Errorf("expected custom category, got %+v", c)
	}
	c2 := ParseCategory("security")
	if c2.Kind != Security {
		t.Errorf("expected Security, got %+v", c2)
	}
}

func TestLoad_YAML_ValidRule(t *testing.T) {
	doc := []byte(`
rules:
  - id: avoid-println
    language: rust
    severity: info
    category: best_practice
    message: avoid leftover println! calls
    rule:
      pattern: 'println!($ARGS)'
`)
	rs, err := Load(doc, YAML, "official", 100)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rs) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rs))
	}
	r := rs[0]
	if r.Quarantined {
		t.Errorf("expected rule to load cleanly, got quarantine reason %q", r.QuarantineReason)
	}
	if r.Language != lang.Rust {
		t.Errorf("expected Rust, got %s", r.Language)
	}
	if len(r.CaptureNames) != 1 || r.CaptureNames[0] != "$ARGS" {
		t.Errorf("expected capture $ARGS, got %v", r.CaptureNames)
	}
}

func TestLoad_QuarantinesBadSeverity(t *testing.T) {
	doc := []byte(`
rules:
  - id: bad-sev
    language: go
    severity: catastrophic
    message: x
    rule:
      regex: 'foo'
`)
	rs, err := Load(doc, YAML, "official", 100)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !rs[0].Quarantined {
		t.Error("expected rule with unknown severity to be quarantined")
	}
}

func TestLoad_QuarantinesMissingPattern(t *testing.T) {
	doc := []byte(`
rules:
  - id: no-pattern
    language: go
    severity: warning
    message: x
`)
	rs, err := Load(doc, YAML, "official", 100)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !rs[0].Quarantined {
		t.Error("expected rule without pattern or regex to be quarantined")
	}
}

func TestLoad_DuplicateIDWithinDocument(t *testing.T) {
	doc := []byte(`
rules:
  - id: dup
    language: go
    severity: warning
    message: first
    rule:
      regex: 'a'
  - id: dup
    language: go
    severity: warning
    message: second
    rule:
      regex: 'b'
`)
	rs, err := Load(doc, YAML, "official", 100)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !rs[1].Quarantined {
		t.Error("expected second occurrence of duplicate id to be quarantined")
	}
}

func TestCatalog_PriorityShadowing(t *testing.T) {
	high := []Rule{{ID: "r1", SourceName: "security", Priority: 200, Severity: Warning, Language: lang.Go}}
	low := []Rule{{ID: "r1", SourceName: "community", Priority: 50, Severity: Warning, Language: lang.Go}}

	cat := NewCatalog(low, high)
	got, ok := cat.Get("r1")
	if !ok {
		t.Fatal("expected rule r1 present")
	}
	if got.SourceName != "security" {
		t.Errorf("expected high-priority source to win, got %s", got.SourceName)
	}

	foundShadowDiag := false
	for _, d := range cat.Diagnostics() {
		if d.RuleID == "r1" {
			foundShadowDiag = true
		}
	}
	if !foundShadowDiag {
		t.Error("expected a diagnostic naming the shadowed rule")
	}
}

func TestSeverityRankOrdering(t *testing.T) {
	ordered := []Severity{Hint, Info, Warning, Error}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Errorf("expected %s to rank below %s", ordered[i-1], ordered[i])
		}
	}
}

func TestOverrides_Apply(t *testing.T) {
	o := &Overrides{DisabledRules: []string{"r2"}}
	in := []Rule{{ID: "r1"}, {ID: "r2"}}
	out := o.Apply(in)
	if len(out) != 1 || out[0].ID != "r1" {
		t.Errorf("expected only r1 to survive, got %+v", out)
	}
}
