// Package lang is the language registry: a closed mapping from file
// extension to language tag, plus per-tag metadata used by the diff/AST
// mapper and structural summariser to classify syntax nodes.
package lang

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Tag is a closed enumeration of supported languages and configuration
// formats. The zero value Unknown is never returned by Detect for a path
// that matched an extension; it is only used as an explicit "absent" marker.
type Tag string

const (
	Unknown    Tag = ""
	Go         Tag = "go"
	Rust       Tag = "rust"
	Java       Tag = "java"
	Python     Tag = "python"
	JavaScript Tag = "javascript"
	TypeScript Tag = "typescript"
	C          Tag = "c"
	Cpp        Tag = "cpp"
	YAML       Tag = "yaml"
	JSON       Tag = "json"
	TOML       Tag = "toml"
	Markdown   Tag = "markdown"
)

// NodeKind classifies a syntax node for diff mapping and summarisation:
// which tree-sitter node types count as a function, type, method, or
// interface declaration in a given language.
type NodeKind string

const (
	NodeFunction  NodeKind = "function"
	NodeType      NodeKind = "type"
	NodeMethod    NodeKind = "method"
	NodeInterface NodeKind = "interface"
	NodeOther     NodeKind = "other"
)

// Metadata describes everything the rest of the engine needs to know about
// a language beyond its tag: how to build a tree-sitter parser for it (nil
// for config/markup tags with no grammar wired), and how its node types map
// onto the closed NodeKind classification.
type Metadata struct {
	Tag              Tag
	BlockCommentOpen string
	BlockCommentEnd  string
	LineComment      string
	// grammar is nil for tags with no tree-sitter grammar (yaml/json/toml/
	// markdown); such tags are structurally unsupported and the matcher
	// always falls back to regex matching for them.
	grammar func() *sitter.Language
	// nodeKinds maps a tree-sitter node type string to the NodeKind the
	// diff/AST mapper and structural summariser should treat it as. Node
	// types absent from the map are NodeOther.
	nodeKinds map[string]NodeKind
}

// Grammar returns the tree-sitter grammar for this language, or nil if none
// is wired (config/markup tags).
func (m Metadata) Grammar() *sitter.Language {
	if m.grammar == nil {
		return nil
	}
	return m.grammar()
}

// ClassifyNode returns the NodeKind for a tree-sitter node type string.
func (m Metadata) ClassifyNode(nodeType string) NodeKind {
	if kind, ok := m.nodeKinds[nodeType]; ok {
		return kind
	}
	return NodeOther
}

// extByLang is the closed extension (case-folded, no dot) -> Tag mapping.
var extByLang = map[string]Tag{
	"go":   Go,
	"rs":   Rust,
	"java": Java,
	"py":   Python,
	"pyi":  Python,
	"js":   JavaScript,
	"jsx":  JavaScript,
	"mjs":  JavaScript,
	"cjs":  JavaScript,
	"ts":   TypeScript,
	"tsx":  TypeScript,
	"c":    C,
	"h":    C,
	"cc":   Cpp,
	"cpp":  Cpp,
	"cxx":  Cpp,
	"hpp":  Cpp,
	"hh":   Cpp,
	"yaml": YAML,
	"yml":  YAML,
	"json": JSON,
	"toml": TOML,
	"md":   Markdown,
	"mdx":  Markdown,
}

// nameOverrides maps a standard file name (e.g. Dockerfile, go.mod) to
// a Tag, taking priority over extension-based detection.
var nameOverrides = map[string]Tag{
	"Dockerfile":     Unknown, // recognised but not a supported code grammar
	"go.mod":         TOML,    // close enough structurally for rule purposes
	"Cargo.toml":     TOML,
	"pyproject.toml": TOML,
}

var registry map[Tag]Metadata

func init() {
	registry = map[Tag]Metadata{
		Go: {
			Tag: Go, LineComment: "//", BlockCommentOpen: "/*", BlockCommentEnd: "*/",
			grammar: golang.GetLanguage,
			nodeKinds: map[string]NodeKind{
				"function_declaration": NodeFunction,
				"method_declaration":   NodeMethod,
				"type_declaration":     NodeType,
				"type_spec":            NodeType,
				"interface_type":       NodeInterface,
			},
		},
		Rust: {
			Tag: Rust, LineComment: "//", BlockCommentOpen: "/*", BlockCommentEnd: "*/",
			grammar: rust.GetLanguage,
			nodeKinds: map[string]NodeKind{
				"function_item": NodeFunction,
				"impl_item":     NodeMethod,
				"struct_item":   NodeType,
				"enum_item":     NodeType,
				"trait_item":    NodeInterface,
				"mod_item":      NodeOther,
			},
		},
		Java: {
			Tag: Java, LineComment: "//", BlockCommentOpen: "/*", BlockCommentEnd: "*/",
			grammar: java.GetLanguage,
			nodeKinds: map[string]NodeKind{
				"method_declaration":      NodeMethod,
				"constructor_declaration": NodeMethod,
				"class_declaration":       NodeType,
				"interface_declaration":   NodeInterface,
				"enum_declaration":        NodeType,
			},
		},
		Python: {
			Tag: Python, LineComment: "#",
			grammar: python.GetLanguage,
			nodeKinds: map[string]NodeKind{
				"function_definition": NodeFunction,
				"class_definition":    NodeType,
			},
		},
		JavaScript: {
			Tag: JavaScript, LineComment: "//", BlockCommentOpen: "/*", BlockCommentEnd: "*/",
			grammar: javascript.GetLanguage,
			nodeKinds: map[string]NodeKind{
				"function_declaration": NodeFunction,
				"method_definition":    NodeMethod,
				"class_declaration":    NodeType,
			},
		},
		TypeScript: {
			Tag: TypeScript, LineComment: "//", BlockCommentOpen: "/*", BlockCommentEnd: "*/",
			grammar: typescript.GetLanguage,
			nodeKinds: map[string]NodeKind{
				"function_declaration":  NodeFunction,
				"method_definition":     NodeMethod,
				"class_declaration":     NodeType,
				"interface_declaration": NodeInterface,
			},
		},
		C: {
			Tag: C, LineComment: "//", BlockCommentOpen: "/*", BlockCommentEnd: "*/",
			grammar: c.GetLanguage,
			nodeKinds: map[string]NodeKind{
				"function_definition": NodeFunction,
				"struct_specifier":    NodeType,
			},
		},
		Cpp: {
			Tag: Cpp, LineComment: "//", BlockCommentOpen: "/*", BlockCommentEnd: "*/",
			grammar: cpp.GetLanguage,
			nodeKinds: map[string]NodeKind{
				"function_definition": NodeFunction,
				"class_specifier":     NodeType,
				"struct_specifier":    NodeType,
			},
		},
		YAML:     {Tag: YAML, LineComment: "#"},
		JSON:     {Tag: JSON},
		TOML:     {Tag: TOML, LineComment: "#"},
		Markdown: {Tag: Markdown},
	}
}

// Detect maps a file path to a LanguageTag. It never fails: an unrecognised
// extension yields (Unknown, false).
func Detect(path string) (Tag, bool) {
	base := filepath.Base(path)
	if tag, ok := nameOverrides[base]; ok {
		return tag, tag != Unknown
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return Unknown, false
	}
	tag, ok := extByLang[ext]
	return tag, ok
}

// ListSupported returns the set of all tags with registered metadata.
func ListSupported() []Tag {
	out := make([]Tag, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	return out
}

// Get returns the Metadata for a tag, and false if the tag is unrecognised.
func Get(tag Tag) (Metadata, bool) {
	m, ok := registry[tag]
	return m, ok
}

// HasGrammar reports whether the tag has a tree-sitter grammar wired, i.e.
// whether the structural pattern matcher can operate on it at all.
func HasGrammar(tag Tag) bool {
	m, ok := registry[tag]
	return ok && m.grammar != nil
}
