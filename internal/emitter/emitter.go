// Package emitter renders the three generated TypeScript artifacts from a
// validated corpus: host bindings (main.ts), UI bindings (preload.ts) and
// ambient window types (window.d.ts).
package emitter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/ipcgen/internal/config"
	"github.com/mvp-joe/ipcgen/internal/spec"
)

// Banner opens every generated artifact.
const Banner = "// NOTICE: THIS FILE WAS GENERATED BY IPCGEN.\n" +
	"// ANY CHANGES TO THIS FILE WILL NOT PERSIST BETWEEN GENERATIONS.\n"

// Artifact is one generated output file.
type Artifact interface {
	// TargetPath is the absolute path the artifact is written to.
	TargetPath() string

	// RenderEmpty renders the stub written when there are no channels.
	RenderEmpty() string

	// RenderFull renders the bindings for every channel of the corpus.
	RenderFull(corpus spec.Corpus) string
}

// Artifacts returns the host, UI and ambient artifacts for cfg.
func Artifacts(cfg *config.ResolvedConfig) []Artifact {
	return []Artifact{
		NewHost(cfg),
		NewPreload(cfg),
		NewAmbient(cfg),
	}
}

// Render returns the complete file contents of a, banner included.
func Render(a Artifact, corpus spec.Corpus) string {
	body := a.RenderEmpty()
	if corpus.ChannelCount() > 0 {
		body = a.RenderFull(corpus)
	}
	return Banner + "\n" + body
}

// Write renders a and replaces its target file atomically, creating parent
// directories as needed.
func Write(ctx context.Context, a Artifact, corpus spec.Corpus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeFileAtomic(a.TargetPath(), []byte(Render(a, corpus)))
}

// RenderAll writes every artifact concurrently. A failure in one artifact
// does not roll back the others.
func RenderAll(ctx context.Context, cfg *config.ResolvedConfig, corpus spec.Corpus) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, artifact := range Artifacts(cfg) {
		g.Go(func() error {
			if err := Write(gctx, artifact, corpus); err != nil {
				return fmt.Errorf("failed to write %s: %w", artifact.TargetPath(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// entry is one rendered member of a generated object literal or interface.
type entry struct {
	key  string
	text string
}

// sortEntries orders "on" members first, then "send" members, then the
// rest, alphabetically within each group.
func sortEntries(entries []entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ri, rj := prefixRank(entries[i].key), prefixRank(entries[j].key)
		if ri != rj {
			return ri < rj
		}
		return entries[i].key < entries[j].key
	})
}

var prefixOrder = []string{"on", "send"}

func prefixRank(key string) int {
	for i, prefix := range prefixOrder {
		if strings.HasPrefix(key, prefix) {
			return i
		}
	}
	return len(prefixOrder)
}

func writeEntries(b *strings.Builder, entries []entry) {
	sortEntries(entries)
	for _, e := range entries {
		b.WriteString(e.text)
	}
}

// indenter produces leading whitespace for a nesting level.
type indenter string

func newIndenter(width int) indenter {
	return indenter(strings.Repeat(" ", width))
}

func (i indenter) at(level int) string {
	return strings.Repeat(string(i), level)
}

// paramDecl renders one parameter as declared, e.g. "...rest: T[]".
func paramDecl(p spec.Param) string {
	var b strings.Builder
	if p.Rest {
		b.WriteString("...")
	}
	b.WriteString(p.Name)
	if p.Optional && !p.Rest {
		b.WriteString("?")
	}
	typ := p.Type
	if typ == "" {
		typ = "any"
	}
	b.WriteString(": ")
	b.WriteString(typ)
	return b.String()
}

// paramList renders a parameter list without parentheses, optionally
// preceded by extra leading parameters.
func paramList(params []spec.Param, leading ...string) string {
	parts := append([]string{}, leading...)
	for _, p := range params {
		parts = append(parts, paramDecl(p))
	}
	return strings.Join(parts, ", ")
}

// paramClause renders the parenthesized parameter list of sig behind its
// generic parameters, so "<T>(value: T)" keeps T in scope.
func paramClause(sig *spec.Signature, leading ...string) string {
	return sig.TypeParams + "(" + paramList(sig.Params, leading...) + ")"
}

// argList renders the forwarding arguments for params, spreading rest params.
func argList(params []spec.Param, leading ...string) string {
	parts := append([]string{}, leading...)
	for _, p := range params {
		if p.Rest {
			parts = append(parts, "..."+p.Name)
			continue
		}
		parts = append(parts, p.Name)
	}
	return strings.Join(parts, ", ")
}

func returnType(sig *spec.Signature) string {
	if sig.ReturnType == "" {
		return "void"
	}
	return sig.ReturnType
}

// awaitable wraps a synchronous return type in Promise<...>.
func awaitable(sig *spec.Signature) string {
	ret := returnType(sig)
	if sig.Async {
		return ret
	}
	return "Promise<" + ret + ">"
}

// channels yields every channel with a signature, in corpus order.
func channels(corpus spec.Corpus) []spec.ChannelSpec {
	var result []spec.ChannelSpec
	for _, pfs := range corpus {
		for _, ch := range pfs.Specs.ChannelSpecs {
			if ch.Signature != nil {
				result = append(result, ch)
			}
		}
	}
	return result
}
