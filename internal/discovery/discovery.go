// Package discovery locates the schema modules of a project and reads them.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/ipcgen/internal/config"
)

// DefaultPatterns select schema modules inside a schema directory.
var DefaultPatterns = []string{"**/*.ts", "**/*.mts", "**/*.cts"}

// DefaultIgnore excludes declaration files and dependencies.
var DefaultIgnore = []string{"**/*.d.ts", "node_modules/**"}

// readConcurrency bounds the number of files read at once.
const readConcurrency = 8

// compiledPattern holds both the pattern string and compiled glob.
// rootGlob matches files at the top level for patterns starting with "**/".
type compiledPattern struct {
	pattern  string
	glob     glob.Glob
	rootGlob glob.Glob
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		cp := compiledPattern{pattern: pattern, glob: g}
		if simplified, ok := strings.CutPrefix(pattern, "**/"); ok {
			if rg, err := glob.Compile(simplified, '/'); err == nil {
				cp.rootGlob = rg
			}
		}
		compiled = append(compiled, cp)
	}
	return compiled, nil
}

// Source is the text of one schema module.
type Source struct {
	FullPath     string
	RelativePath string // slash-separated, relative to the schema root
	Content      []byte
}

// SchemaDiscovery finds schema modules below a directory.
type SchemaDiscovery struct {
	rootDir        string
	patterns       []compiledPattern
	ignorePatterns []compiledPattern
}

// New creates a discovery rooted at rootDir. Nil pattern lists use the defaults.
func New(rootDir string, patterns, ignorePatterns []string) (*SchemaDiscovery, error) {
	if patterns == nil {
		patterns = DefaultPatterns
	}
	if ignorePatterns == nil {
		ignorePatterns = DefaultIgnore
	}

	include, err := compilePatterns(patterns)
	if err != nil {
		return nil, err
	}
	ignore, err := compilePatterns(ignorePatterns)
	if err != nil {
		return nil, err
	}

	return &SchemaDiscovery{
		rootDir:        rootDir,
		patterns:       include,
		ignorePatterns: ignore,
	}, nil
}

// Discover walks the directory tree and returns matching files sorted by
// relative path.
func (d *SchemaDiscovery) Discover() ([]string, error) {
	files := []string{}

	err := filepath.WalkDir(d.rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if entry.IsDir() {
			if relPath != "." && d.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.shouldIgnore(relPath) {
			return nil
		}
		if matchesAnyPattern(relPath, d.patterns) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return filepath.ToSlash(files[i]) < filepath.ToSlash(files[j])
	})
	return files, nil
}

// Matches reports whether path, absolute or relative to the root, would be
// returned by Discover.
func (d *SchemaDiscovery) Matches(path string) bool {
	if filepath.IsAbs(path) {
		rel, err := filepath.Rel(d.rootDir, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			return false
		}
		path = rel
	}
	path = filepath.ToSlash(path)

	dir := path
	for {
		i := strings.LastIndex(dir, "/")
		if i < 0 {
			break
		}
		dir = dir[:i]
		if d.shouldIgnore(dir) {
			return false
		}
	}
	return !d.shouldIgnore(path) && matchesAnyPattern(path, d.patterns)
}

// shouldIgnore checks if a path matches any ignore pattern.
func (d *SchemaDiscovery) shouldIgnore(relPath string) bool {
	if matchesAnyPattern(relPath, d.ignorePatterns) {
		return true
	}

	// "node_modules" should match pattern "node_modules/**"
	return matchesAnyPattern(relPath+"/**", d.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
// Top-level paths also match "**/" patterns, so "**/*.ts" matches "schema.ts".
func matchesAnyPattern(path string, patterns []compiledPattern) bool {
	topLevel := !strings.Contains(path, "/")
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
		if topLevel && cp.rootGlob != nil && cp.rootGlob.Match(path) {
			return true
		}
	}
	return false
}

// Read loads the given files concurrently. The result keeps the order of
// paths; relative paths are computed against the discovery root.
func (d *SchemaDiscovery) Read(ctx context.Context, paths []string) ([]Source, error) {
	return readSources(ctx, d.rootDir, paths)
}

func readSources(ctx context.Context, rootDir string, paths []string) ([]Source, error) {
	sources := make([]Source, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read schema %s: %w", path, err)
			}
			relPath, err := filepath.Rel(rootDir, path)
			if err != nil {
				return err
			}
			sources[i] = Source{
				FullPath:     path,
				RelativePath: filepath.ToSlash(relPath),
				Content:      content,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}

// LocationKind says where the schema modules of a project live.
type LocationKind int

const (
	// LocationNone means neither schema.ts nor schema/ exists.
	LocationNone LocationKind = iota
	// LocationFile means a single schema.ts module.
	LocationFile
	// LocationDir means a schema/ directory of modules.
	LocationDir
)

func (k LocationKind) String() string {
	switch k {
	case LocationFile:
		return "file"
	case LocationDir:
		return "directory"
	default:
		return "none"
	}
}

// Location is the resolved schema location of a project.
type Location struct {
	Kind LocationKind
	Path string
}

// Locate prefers <dataDir>/schema.ts and falls back to <dataDir>/schema/.
func Locate(cfg *config.ResolvedConfig) (Location, error) {
	info, err := os.Stat(cfg.SchemaFile)
	switch {
	case err == nil && !info.IsDir():
		return Location{Kind: LocationFile, Path: cfg.SchemaFile}, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return Location{}, fmt.Errorf("failed to stat %s: %w", cfg.SchemaFile, err)
	}

	info, err = os.Stat(cfg.SchemaDir)
	switch {
	case err == nil && info.IsDir():
		return Location{Kind: LocationDir, Path: cfg.SchemaDir}, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return Location{}, fmt.Errorf("failed to stat %s: %w", cfg.SchemaDir, err)
	}

	return Location{Kind: LocationNone}, nil
}

// Load locates and reads every schema module of the project.
func Load(ctx context.Context, cfg *config.ResolvedConfig) (Location, []Source, error) {
	loc, err := Locate(cfg)
	if err != nil {
		return loc, nil, err
	}

	switch loc.Kind {
	case LocationFile:
		sources, err := readSources(ctx, cfg.DataDir, []string{loc.Path})
		return loc, sources, err
	case LocationDir:
		d, err := New(loc.Path, nil, nil)
		if err != nil {
			return loc, nil, err
		}
		paths, err := d.Discover()
		if err != nil {
			return loc, nil, fmt.Errorf("failed to discover schema modules: %w", err)
		}
		sources, err := d.Read(ctx, paths)
		return loc, sources, err
	default:
		return loc, []Source{}, nil
	}
}
