package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/ipcgen/internal/spec"
)

// extractImport converts an import statement into an ImportSpec.
// Side-effect and default-only imports report false.
func extractImport(node *sitter.Node, source []byte) (spec.ImportSpec, bool) {
	src := node.ChildByFieldName("source")
	if src == nil {
		src = findChildByType(node, "string")
	}
	clause := findChildByType(node, "import_clause")
	if src == nil || clause == nil {
		return spec.ImportSpec{}, false
	}

	imp := spec.ImportSpec{
		FromPath:    stringValue(src, source),
		CustomTypes: []string{},
	}

	if ns := findChildByType(clause, "namespace_import"); ns != nil {
		imp.Namespace = nodeText(findChildByType(ns, "identifier"), source)
		return imp, imp.Namespace != ""
	}

	named := findChildByType(clause, "named_imports")
	if named == nil {
		return spec.ImportSpec{}, false
	}

	imp.CustomTypes = collectCustomTypes(node, source)
	for _, specifier := range namedChildren(named) {
		if specifier.Kind() != "import_specifier" {
			continue
		}
		alias := specifier.ChildByFieldName("alias")
		name := specifier.ChildByFieldName("name")
		if alias == nil || name == nil {
			continue
		}
		if imp.Aliases == nil {
			imp.Aliases = make(map[string]string)
		}
		imp.Aliases[nodeText(alias, source)] = nodeText(name, source)
	}
	return imp, true
}

// extractTypeDeclaration converts an interface or type alias declaration.
func extractTypeDeclaration(node *sitter.Node, source []byte, exported bool) spec.TypeSpec {
	kind := spec.TypeKindAlias
	if node.Kind() == "interface_declaration" {
		kind = spec.TypeKindInterface
	}

	typeParams := node.ChildByFieldName("type_parameters")
	if typeParams == nil {
		typeParams = findChildByType(node, "type_parameters")
	}

	return spec.TypeSpec{
		Name:       nodeText(node.ChildByFieldName("name"), source),
		Kind:       kind,
		Generics:   nodeText(typeParams, source),
		IsExported: exported,
	}
}
