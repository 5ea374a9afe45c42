package astcache

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/sevigo/codelens/internal/lang"
)

// SyntaxTree is the immutable parsed representation of a SourceFile. It
// owns a reference to the source bytes it was parsed from. A tree whose
// underlying parse failed to fully recover is marked Partial rather than
// discarded; the parser recovers as far as it can, and a partial tree is
// still useful to downstream mapping.
type SyntaxTree struct {
	hash     string
	language lang.Tag
	source   []byte
	tree     *sitter.Tree
	partial  bool
}

// RootNode returns the root node of the parsed tree, or nil if the language
// had no grammar wired (e.g. yaml/json/toml).
func (t *SyntaxTree) RootNode() *sitter.Node {
	if t.tree == nil {
		return nil
	}
	return t.tree.RootNode()
}

// Source returns the exact bytes this tree was parsed from.
func (t *SyntaxTree) Source() []byte { return t.source }

// Language returns the language tag this tree was parsed with.
func (t *SyntaxTree) Language() lang.Tag { return t.language }

// ContentHash returns the hash this tree is keyed by in the cache.
func (t *SyntaxTree) ContentHash() string { return t.hash }

// Partial reports whether the parse did not fully succeed (the underlying
// parser recovered as best it could; the tree may be missing nodes).
func (t *SyntaxTree) Partial() bool { return t.partial }

// Close releases the underlying tree-sitter resources. Safe to call multiple
// times. Readers that obtained a tree before it was evicted from the cache
// may continue to use it until they call Close (weak-eviction semantics).
func (t *SyntaxTree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}
