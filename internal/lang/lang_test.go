package lang

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		path   string
		want   Tag
		wantOK bool
	}{
		{"main.go", Go, true},
		{"lib.rs", Rust, true},
		{"app.py", Python, true},
		{"index.tsx", TypeScript, true},
		{"README.md", Markdown, true},
		{"config.yaml", YAML, true},
		{"data.unknownext", Unknown, false},
		{"noext", Unknown, false},
	}
	for _, tt := range tests {
		got, ok := Detect(tt.path)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Detect(%q) = (%v, %v), want (%v, %v)", tt.path, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestClassifyNode(t *testing.T) {
	meta, ok := Get(Go)
	if !ok {
		t.Fatal("expected Go metadata to be registered")
	}
	if meta.ClassifyNode("function_declaration") != NodeFunction {
		t.Errorf("expected function_declaration to classify as NodeFunction")
	}
	if meta.ClassifyNode("nonsense_node") != NodeOther {
		t.Errorf("expected unknown node type to classify as NodeOther")
	}
}

func TestHasGrammar(t *testing.T) {
	if !HasGrammar(Go) {
		t.Error("expected Go to have a grammar wired")
	}
	if HasGrammar(YAML) {
		t.Error("expected YAML to have no grammar wired")
	}
}
