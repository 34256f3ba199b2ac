package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for each node.
// Returning false from the visitor skips the node's children.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}

// findChildByType finds the first child node with the given type.
func findChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child != nil && child.Kind() == nodeType {
			return child
		}
	}
	return nil
}

// hasChildOfType reports whether any direct child (named or anonymous) has the given type.
func hasChildOfType(node *sitter.Node, nodeType string) bool {
	return findChildByType(node, nodeType) != nil
}

// namedChildren returns the named children of a node in source order.
func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}

	results := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(uint(i)); child != nil {
			results = append(results, child)
		}
	}
	return results
}

// stringValue returns the unquoted contents of a string literal node.
// Any other node yields its raw text.
func stringValue(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	if node.Kind() != "string" {
		return nodeText(node, source)
	}
	if fragment := findChildByType(node, "string_fragment"); fragment != nil {
		return nodeText(fragment, source)
	}
	return strings.Trim(nodeText(node, source), `"'`)
}

// unwrapParens strips parenthesized_type and parenthesized_expression wrappers.
func unwrapParens(node *sitter.Node) *sitter.Node {
	for node != nil && (node.Kind() == "parenthesized_type" || node.Kind() == "parenthesized_expression") {
		inner := node.NamedChild(0)
		if inner == nil {
			break
		}
		node = inner
	}
	return node
}
