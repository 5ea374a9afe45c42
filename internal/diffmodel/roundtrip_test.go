package diffmodel

import (
	"reflect"
	"strings"
	"testing"
)

// TestDiffRoundTrip checks that for any GitDiff D parsed from bytes B,
// Parse(Serialize(D)) reproduces an equivalent GitDiff.
func TestDiffRoundTrip(t *testing.T) {
	cases := []string{
		strings.Join([]string{
			"diff --git a/foo.go b/foo.go",
			"--- a/foo.go",
			"+++ b/foo.go",
			"@@ -1,3 +1,4 @@",
			" package foo",
			"+import \"fmt\"",
			" ",
			" func F() {}",
			"",
		}, "\n"),
		strings.Join([]string{
			"diff --git a/new.go b/new.go",
			"new file mode 100644",
			"--- /dev/null",
			"+++ b/new.go",
			"@@ -0,0 +1,2 @@",
			"+package new",
			"+",
			"",
		}, "\n"),
		strings.Join([]string{
			"diff --git a/old.go b/old.go",
			"deleted file mode 100644",
			"--- a/old.go",
			"+++ /dev/null",
			"@@ -1,2 +0,0 @@",
			"-package old",
			"-",
			"",
		}, "\n"),
	}

	for i, raw := range cases {
		d1, err := Parse([]byte(raw))
		if err != nil {
			t.Fatalf("case %d: Parse: %v", i, err)
		}

		serialized := Serialize(d1)

		d2, err := Parse(serialized)
		if err != nil {
			t.Fatalf("case %d: re-parse of serialized output failed: %v\n%s", i, err, serialized)
		}

		if !reflect.DeepEqual(d1, d2) {
			t.Errorf("case %d: round trip mismatch\nfirst:  %+v\nsecond: %+v", i, d1, d2)
		}
	}
}
