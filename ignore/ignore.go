// Package ignore enumerates the version-tracked portion of a file tree.
// A path is tracked when it is not matched by any gitignore rule and no
// segment of it starts with a dot.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Walker walks a repository tree while applying gitignore patterns and
// hidden-path exclusion.
type Walker struct {
	matcher  gitignore.Matcher
	rootPath string
}

// NewWalker creates a Walker rooted at rootPath. All .gitignore files under
// the root are read up front.
func NewWalker(rootPath string) (*Walker, error) {
	fs := osfs.New(rootPath)
	patterns, err := gitignore.ReadPatterns(fs, []string{})
	if err != nil {
		return nil, fmt.Errorf("failed to read gitignore patterns: %w", err)
	}

	return &Walker{
		matcher:  gitignore.NewMatcher(patterns),
		rootPath: rootPath,
	}, nil
}

// IsExcluded reports whether relPath (slash separated, relative to the root)
// should be skipped. Hidden segments are checked before gitignore rules.
func (w *Walker) IsExcluded(relPath string, isDir bool) bool {
	if relPath == "." || relPath == "" {
		return false
	}

	parts := strings.Split(relPath, "/")
	for _, part := range parts {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}

	return w.matcher.Match(parts, isDir)
}

// Walk calls fn with the slash-separated relative path of every tracked file
// under the root. Directories are descended but not reported; excluded
// directories are pruned without visiting their contents.
func (w *Walker) Walk(fn func(relPath string) error) error {
	return filepath.WalkDir(w.rootPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(w.rootPath, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if w.IsExcluded(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		return fn(rel)
	})
}

// ListFiles returns every tracked file path under the root in walk order.
func (w *Walker) ListFiles() ([]string, error) {
	var paths []string
	err := w.Walk(func(relPath string) error {
		paths = append(paths, relPath)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
