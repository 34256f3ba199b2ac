// Package imports produces the type-only import lines a generated artifact
// needs for the custom types referenced by channel signatures.
package imports

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mvp-joe/ipcgen/internal/spec"
)

// Resolver resolves custom type names to import declarations for a single
// target artifact. It remembers what it has emitted, so each type and
// namespace is imported at most once per Resolver.
type Resolver struct {
	targetDir string
	nodeNext  bool

	seenTypes      map[string]bool
	seenNamespaces map[string]bool
}

// NewResolver creates a resolver for the artifact written to targetPath.
// nodeNext selects NodeNext module resolution for locally declared types.
func NewResolver(targetPath string, nodeNext bool) *Resolver {
	return &Resolver{
		targetDir:      filepath.Dir(targetPath),
		nodeNext:       nodeNext,
		seenTypes:      make(map[string]bool),
		seenNamespaces: make(map[string]bool),
	}
}

// SplitNamespace splits "NS.Type" into ("NS", "Type") and "Type" into ("", "Type").
func SplitNamespace(customType string) (namespace, name string) {
	if i := strings.Index(customType, "."); i > 0 {
		return customType[:i], customType[i+1:]
	}
	return "", customType
}

// Declaration returns the import line for customType as referenced from the
// module pfs, or false when the type is ambient or was already imported.
//
// A type declared in the module itself is imported from that module. A
// type brought in by one of the module's imports is re-imported from the
// same place, with relative paths rebased onto the target directory.
func (r *Resolver) Declaration(pfs spec.ParsedFileSpecs, customType string) (string, bool) {
	namespace, name := SplitNamespace(customType)

	if namespace != "" {
		imp, ok := findNamespaceImport(pfs.Specs.ImportSpecs, namespace)
		if !ok || r.seenNamespaces[namespace] {
			return "", false
		}
		r.seenNamespaces[namespace] = true
		return fmt.Sprintf(`import type * as %s from "%s";`, namespace, r.relocate(imp.FromPath, pfs.FullPath)), true
	}

	if _, ok := FindLocalType(pfs, name); ok {
		if r.seenTypes[name] {
			return "", false
		}
		r.seenTypes[name] = true
		return fmt.Sprintf(`import type { %s } from "%s";`, name, r.localModulePath(pfs.FullPath)), true
	}

	imp, ok := findNamedImport(pfs.Specs.ImportSpecs, name)
	if !ok || r.seenTypes[name] {
		return "", false
	}
	r.seenTypes[name] = true

	binding := name
	if original, aliased := imp.Aliases[name]; aliased && original != name {
		binding = original + " as " + name
	}
	return fmt.Sprintf(`import type { %s } from "%s";`, binding, r.relocate(imp.FromPath, pfs.FullPath)), true
}

// Declarations resolves every custom type of every channel in the corpus, in
// corpus order, and returns the lines that were produced.
func (r *Resolver) Declarations(corpus spec.Corpus, include func(spec.ChannelSpec) bool) []string {
	var lines []string
	for _, pfs := range corpus {
		for _, ch := range pfs.Specs.ChannelSpecs {
			if ch.Signature == nil || (include != nil && !include(ch)) {
				continue
			}
			for _, customType := range ch.Signature.CustomTypes {
				if line, ok := r.Declaration(pfs, customType); ok {
					lines = append(lines, line)
				}
			}
		}
	}
	return lines
}

// FindLocalType returns the type declared as name in the module.
func FindLocalType(pfs spec.ParsedFileSpecs, name string) (spec.TypeSpec, bool) {
	for _, ts := range pfs.Specs.TypeSpecs {
		if ts.Name == name {
			return ts, true
		}
	}
	return spec.TypeSpec{}, false
}

func findNamespaceImport(specs []spec.ImportSpec, namespace string) (spec.ImportSpec, bool) {
	for _, imp := range specs {
		if imp.Namespace == namespace {
			return imp, true
		}
	}
	return spec.ImportSpec{}, false
}

func findNamedImport(specs []spec.ImportSpec, name string) (spec.ImportSpec, bool) {
	for _, imp := range specs {
		if slices.Contains(imp.CustomTypes, name) {
			return imp, true
		}
	}
	return spec.ImportSpec{}, false
}

// localModulePath is the specifier of the schema module itself, relative to
// the target, with the extension the module resolution dialect expects.
func (r *Resolver) localModulePath(modulePath string) string {
	ext := filepath.Ext(modulePath)
	stem := strings.TrimSuffix(modulePath, ext)
	if r.nodeNext {
		stem += nodeNextExtension(ext)
	}
	return r.relativeToTarget(stem)
}

// relocate rebases a relative specifier written in sourceFile onto the
// target directory. Bare and absolute specifiers are returned unchanged.
func (r *Resolver) relocate(specifier, sourceFile string) string {
	if !IsRelative(specifier) {
		return specifier
	}
	abs := filepath.Join(filepath.Dir(sourceFile), filepath.FromSlash(specifier))
	return r.relativeToTarget(abs)
}

func (r *Resolver) relativeToTarget(absPath string) string {
	rel, err := filepath.Rel(r.targetDir, absPath)
	if err != nil {
		return filepath.ToSlash(absPath)
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, "../") && rel != ".." {
		rel = "./" + rel
	}
	return rel
}

// IsRelative reports whether specifier is a "./" or "../" module path.
func IsRelative(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

func nodeNextExtension(ext string) string {
	switch ext {
	case ".mts":
		return ".mjs"
	case ".cts":
		return ".cjs"
	default:
		return ".js"
	}
}
