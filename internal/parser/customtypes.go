package parser

import (
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

var builtinTypes = map[string]bool{
	"string":    true,
	"number":    true,
	"boolean":   true,
	"void":      true,
	"any":       true,
	"unknown":   true,
	"null":      true,
	"undefined": true,
	"never":     true,
	"object":    true,
	"Function":  true,
	"Promise":   true,
}

// IsBuiltinType reports whether a type name never needs an import.
func IsBuiltinType(name string) bool {
	return builtinTypes[name]
}

// typeCollector gathers referenced type names from a syntax subtree.
type typeCollector struct {
	source   []byte
	declared map[string]bool
	found    map[string]bool
}

// collectCustomTypes returns the sorted set of non-builtin type names
// referenced anywhere below node.
func collectCustomTypes(node *sitter.Node, source []byte) []string {
	c := &typeCollector{
		source:   source,
		declared: make(map[string]bool),
		found:    make(map[string]bool),
	}

	// Type parameters declared by the signature itself are not imports.
	walkTree(node, func(n *sitter.Node) bool {
		if n.Kind() == "type_parameter" {
			if name := n.ChildByFieldName("name"); name != nil {
				c.declared[nodeText(name, source)] = true
			} else if name := findChildByType(n, "type_identifier"); name != nil {
				c.declared[nodeText(name, source)] = true
			}
		}
		return true
	})

	c.visit(node)

	types := make([]string, 0, len(c.found))
	for name := range c.found {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

func (c *typeCollector) add(name string) {
	name = strings.Join(strings.Fields(name), "")
	if name == "" || IsBuiltinType(name) || c.declared[name] {
		return
	}
	c.found[name] = true
}

func (c *typeCollector) visit(node *sitter.Node) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "type_identifier":
		c.add(nodeText(node, c.source))
	case "nested_type_identifier":
		// NS.Type is kept whole so the resolver can match the namespace.
		c.add(nodeText(node, c.source))
		return
	case "pair_pattern":
		// `{ key: Name }` in a parameter list reads like an annotation.
		if value := node.ChildByFieldName("value"); value != nil && value.Kind() == "identifier" {
			c.add(nodeText(value, c.source))
		}
	case "import_statement":
		c.visitImport(node)
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		c.visit(node.Child(uint(i)))
	}
}

// visitImport collects the local names of type-only import specifiers.
func (c *typeCollector) visitImport(stmt *sitter.Node) {
	typeOnly := hasChildOfType(stmt, "type")
	named := findChildByType(findChildByType(stmt, "import_clause"), "named_imports")
	for _, specifier := range namedChildren(named) {
		if specifier.Kind() != "import_specifier" {
			continue
		}
		if typeOnly || hasChildOfType(specifier, "type") {
			c.add(importLocalName(specifier, c.source))
		}
	}
}

// importLocalName returns the name an import specifier binds in the module.
func importLocalName(specifier *sitter.Node, source []byte) string {
	if alias := specifier.ChildByFieldName("alias"); alias != nil {
		return nodeText(alias, source)
	}
	if name := specifier.ChildByFieldName("name"); name != nil {
		return nodeText(name, source)
	}
	if ident := findChildByType(specifier, "identifier"); ident != nil {
		return nodeText(ident, source)
	}
	return ""
}
