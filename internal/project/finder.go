// Package project locates the consuming project's root directory.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mvp-joe/ipcgen/internal/cache"
)

// Root markers, tried in order.
var rootMarkers = []string{".git", "package.json"}

// DefaultMemoLimit bounds the number of remembered lookups.
const DefaultMemoLimit = 64

// ErrRootNotFound indicates that no root marker exists above the start directory.
var ErrRootNotFound = errors.New("project root not found")

// Finder searches parent directories for marker paths and remembers the
// answers, including misses, for the lifetime of the process.
type Finder struct {
	memo *cache.Memo[string, string]
	stat func(string) (os.FileInfo, error)
}

// NewFinder creates a Finder backed by memo.
func NewFinder(memo *cache.Memo[string, string]) *Finder {
	return &Finder{
		memo: memo,
		stat: os.Stat,
	}
}

// NewMemo creates a memo suitable for NewFinder.
func NewMemo(limit int) *cache.Memo[string, string] {
	return cache.New[string, string](limit)
}

// SearchUpwards looks for target in startDir and each of its parents and
// returns the first existing path, or "" when the filesystem root is reached.
func (f *Finder) SearchUpwards(target, startDir string) string {
	key := target + string(filepath.ListSeparator) + startDir
	if found, ok := f.memo.Get(key); ok {
		return found
	}

	found := ""
	dir := startDir
	for {
		candidate := filepath.Join(dir, target)
		if _, err := f.stat(candidate); err == nil {
			found = candidate
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	f.memo.Put(key, found)
	return found
}

// FindRoot returns the directory holding the nearest .git, or failing that,
// the nearest package.json above startDir.
func (f *Finder) FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", startDir, err)
	}

	return f.memo.Remember(abs, func() (string, error) {
		for _, marker := range rootMarkers {
			if found := f.SearchUpwards(marker, abs); found != "" {
				return filepath.Dir(found), nil
			}
		}
		return "", fmt.Errorf("%w: no %s or %s above %s", ErrRootNotFound, rootMarkers[0], rootMarkers[1], abs)
	})
}
