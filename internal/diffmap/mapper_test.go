package diffmap

import (
	"context"
	"testing"
	"time"

	"github.com/sevigo/codelens/internal/astcache"
	"github.com/sevigo/codelens/internal/diffmodel"
	"github.com/sevigo/codelens/internal/lang"
)

const sampleGo = `package sample

func Foo() int {
	x := 1
	return x
}

func bar() string {
	return "bar"
}
`

func parseGo(t *testing.T, src string) *astcache.SyntaxTree {
	t.Helper()
	cache := astcache.New(4)
	sf := astcache.NewSourceFile("sample.go", []byte(src), lang.Go, time.Now())
	tree, err := cache.Parse(context.Background(), sf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tree
}

func TestMap_AddedLineInsideFunction(t *testing.T) {
	tree := parseGo(t, sampleGo)
	meta, _ := lang.Get(lang.Go)

	cf := diffmodel.ChangedFile{
		Path:       "sample.go",
		ChangeKind: diffmodel.Modified,
		Hunks: []diffmodel.DiffHunk{
			{
				OldStart: 3, OldCount: 4, NewStart: 3, NewCount: 5,
				Lines: []diffmodel.Line{
					{Kind: diffmodel.Context, Content: "func Foo() int {", OldLineNo: 3, NewLineNo: 3},
					{Kind: diffmodel.Addition, Content: "\tx := 1", NewLineNo: 4},
					{Kind: diffmodel.Context, Content: "\treturn x", OldLineNo: 4, NewLineNo: 5},
				},
			},
		},
	}

	nodes := Map(cf, tree, meta)
	if len(nodes) != 1 {
		t.Fatalf("expected 1 affected node, got %d: %+v", len(nodes), nodes)
	}
	if nodes[0].Name != "Foo" {
		t.Errorf("expected affected node Foo, got %q", nodes[0].Name)
	}
	if nodes[0].Kind != lang.NodeFunction {
		t.Errorf("expected NodeFunction, got %s", nodes[0].Kind)
	}
	if !nodes[0].IsPublic {
		t.Error("expected Foo to be classified public")
	}
	if nodes[0].ChangeKind != diffmodel.Modified {
		t.Errorf("expected Modified change kind, got %s", nodes[0].ChangeKind)
	}
}

func TestMap_NoTargetedLines(t *testing.T) {
	tree := parseGo(t, sampleGo)
	meta, _ := lang.Get(lang.Go)

	cf := diffmodel.ChangedFile{Path: "sample.go", ChangeKind: diffmodel.Modified}
	nodes := Map(cf, tree, meta)
	if len(nodes) != 0 {
		t.Errorf("expected no affected nodes for a file with no hunks, got %d", len(nodes))
	}
}

func TestMap_PrivateFunctionNotPublic(t *testing.T) {
	tree := parseGo(t, sampleGo)
	meta, _ := lang.Get(lang.Go)

	cf := diffmodel.ChangedFile{
		Path:       "sample.go",
		ChangeKind: diffmodel.Modified,
		Hunks: []diffmodel.DiffHunk{
			{
				OldStart: 8, OldCount: 2, NewStart: 8, NewCount: 3,
				Lines: []diffmodel.Line{
					{Kind: diffmodel.Context, Content: "func bar() string {", OldLineNo: 8, NewLineNo: 8},
					{Kind: diffmodel.Addition, Content: "\t// noop", NewLineNo: 9},
					{Kind: diffmodel.Context, Content: "\treturn \"bar\"", OldLineNo: 9, NewLineNo: 10},
				},
			},
		},
	}

	nodes := Map(cf, tree, meta)
	if len(nodes) != 1 {
		t.Fatalf("expected 1 affected node, got %d", len(nodes))
	}
	if nodes[0].IsPublic {
		t.Error("expected bar to be classified non-public")
	}
}
