package query

import (
	"testing"

	"github.com/sevigo/codelens/internal/lang"
)

func TestGet(t *testing.T) {
	text, ok := Get(lang.Go, Highlights)
	if !ok {
		t.Fatal("expected embedded go highlights query")
	}
	if text == "" {
		t.Error("expected non-empty query text")
	}

	_, ok = Get(lang.YAML, Highlights)
	if ok {
		t.Error("expected no highlights query for yaml")
	}
}

func TestGenericFallback(t *testing.T) {
	if GenericIdentifierQuery == "" {
		t.Error("expected a non-empty generic fallback query")
	}
}
