// Package frontend is the embedded C++ front-end substitute: a tree-sitter
// parser plus the raw-text scanners that cover the two constructs vanilla
// tree-sitter-cpp cannot type — launch syntax and shared-incomplete-array
// declarations (see SPEC_FULL.md, "Front-end substitution").
package frontend

import (
	"context"
	"fmt"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	tscpp "github.com/alexaandru/go-sitter-forest/cpp"
)

// Parser wraps a tree-sitter parser configured for the cpp grammar, the
// same construction pattern as pkg/uast/languages.go's per-language
// sitter.NewLanguage/SetLanguage flow, narrowed to the one grammar this
// translator needs.
type Parser struct {
	lang *sitter.Language
}

// NewParser builds the cpp-grammar parser. Safe to reuse across files; a
// fresh *sitter.Parser is created per Parse call since go-tree-sitter-bare
// parsers are not safe for concurrent reuse across translation units.
func NewParser() (*Parser, error) {
	lang := sitter.NewLanguage(tscpp.GetLanguage())
	if lang == nil {
		return nil, fmt.Errorf("frontend: failed to load cpp grammar")
	}

	return &Parser{lang: lang}, nil
}

// Tree is a parsed translation unit: the tree-sitter concrete syntax tree
// plus the exact source bytes it was built from (node offsets are byte
// offsets into this slice).
type Tree struct {
	Source []byte
	tree   *sitter.Tree
}

// Root returns the translation_unit root node.
func (t *Tree) Root() sitter.Node { return t.tree.RootNode() }

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() { t.tree.Close() }

// Parse parses src as a single C/C++ translation unit.
func (p *Parser) Parse(ctx context.Context, src []byte) (*Tree, error) {
	parser := sitter.NewParser()

	parser.SetLanguage(p.lang)

	tree, err := parser.ParseString(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("frontend: parse: %w", err)
	}

	root := tree.RootNode()
	if root.IsNull() {
		return nil, fmt.Errorf("frontend: parser produced no tree")
	}

	return &Tree{Source: src, tree: tree}, nil
}

// Walk calls visit for every node in the tree in a pre-order traversal,
// named children and anonymous children alike — the translator's handlers
// need to see punctuation/operator nodes too (e.g. to recognize a bare
// "extern" keyword token), unlike a pure AST-matcher walk which only cares
// about named productions.
func Walk(n sitter.Node, visit func(sitter.Node)) {
	if n.IsNull() {
		return
	}

	visit(n)

	for i := range n.ChildCount() {
		Walk(n.Child(i), visit)
	}
}

// Content returns a node's source text.
func Content(n sitter.Node, src []byte) string {
	if n.IsNull() {
		return ""
	}

	return n.Content(src)
}
