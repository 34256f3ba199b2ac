// Package parser extracts channel declarations, local type declarations and
// import declarations from TypeScript schema modules.
//
// Extraction is lenient: shapes that do not match the channel grammar are
// skipped, and a matching declaration with malformed properties produces an
// incomplete record for the validator to reject.
package parser

import (
	"context"
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/mvp-joe/ipcgen/internal/spec"
)

// Parser parses schema modules with the tree-sitter TypeScript grammar.
// A Parser is safe for concurrent use; each call creates its own
// tree-sitter parser.
type Parser struct {
	language *sitter.Language
}

// New creates a schema parser.
func New() *Parser {
	return &Parser{
		language: sitter.NewLanguage(typescript.LanguageTypescript()),
	}
}

// ParseSpecs parses one module's text into a SpecsCollection.
// The result depends only on source.
func (p *Parser) ParseSpecs(ctx context.Context, source []byte) (*spec.SpecsCollection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("failed to set typescript language: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse schema module")
	}
	defer tree.Close()

	specs := &spec.SpecsCollection{
		ChannelSpecs: []spec.ChannelSpec{},
		TypeSpecs:    []spec.TypeSpec{},
		ImportSpecs:  []spec.ImportSpec{},
	}

	for _, node := range namedChildren(tree.RootNode()) {
		switch node.Kind() {
		case "expression_statement":
			if channel, ok := extractChannel(node, source); ok {
				specs.ChannelSpecs = append(specs.ChannelSpecs, channel)
			}
		case "import_statement":
			if imp, ok := extractImport(node, source); ok {
				specs.ImportSpecs = append(specs.ImportSpecs, imp)
			}
		case "interface_declaration", "type_alias_declaration":
			specs.TypeSpecs = append(specs.TypeSpecs, extractTypeDeclaration(node, source, false))
		case "export_statement":
			decl := node.ChildByFieldName("declaration")
			if decl != nil && (decl.Kind() == "interface_declaration" || decl.Kind() == "type_alias_declaration") {
				specs.TypeSpecs = append(specs.TypeSpecs, extractTypeDeclaration(decl, source, true))
			}
		}
	}

	return specs, nil
}

// ParseFile parses a module and wraps the result with its path identity.
func (p *Parser) ParseFile(ctx context.Context, fullPath, relativePath string, source []byte) (*spec.ParsedFileSpecs, error) {
	specs, err := p.ParseSpecs(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", relativePath, err)
	}
	return &spec.ParsedFileSpecs{
		FullPath:     fullPath,
		RelativePath: relativePath,
		Specs:        *specs,
	}, nil
}
