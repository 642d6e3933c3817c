// Package index builds a point-in-time snapshot of a repository's tracked
// files and answers recency queries against it. The snapshot is immutable
// for the lifetime of a session.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hayeah/repopick/ignore"
)

// statWorkers bounds the number of concurrent stat calls during a build.
const statWorkers = 16

// Entry is one tracked file: its slash-separated path relative to the
// repository root and its modification time.
type Entry struct {
	Path    string
	ModTime time.Time
}

// Index is the immutable file snapshot plus the directory recency cache.
type Index struct {
	root    string
	entries []Entry // sorted by Path

	mu       sync.Mutex
	dirTimes map[string]time.Time
}

// Build enumerates tracked files under root and stats each one with a
// bounded worker pool. A file that disappears between listing and stat is
// dropped with a warning; only a listing failure is fatal.
func Build(ctx context.Context, root string, logger *slog.Logger) (*Index, error) {
	walker, err := ignore.NewWalker(root)
	if err != nil {
		return nil, fmt.Errorf("failed to init file walker: %w", err)
	}

	paths, err := walker.ListFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked files: %w", err)
	}

	results := make([]*Entry, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(statWorkers)

	for i, relPath := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			info, err := os.Stat(filepath.Join(root, filepath.FromSlash(relPath)))
			if err != nil {
				// Listed but gone before the stat. Drop it.
				logger.Warn("skipping unreadable file", slog.String("path", relPath), slog.String("error", err.Error()))
				return nil
			}
			results[i] = &Entry{Path: relPath, ModTime: info.ModTime()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to stat tracked files: %w", err)
	}

	entries := make([]Entry, 0, len(results))
	for _, e := range results {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	// Results are keyed by listing position; sort by path so the snapshot
	// never depends on worker completion order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	return &Index{
		root:     root,
		entries:  entries,
		dirTimes: make(map[string]time.Time),
	}, nil
}

// Root returns the absolute repository root the index was built from.
func (ix *Index) Root() string { return ix.root }

// Files returns the snapshot entries in path order. The caller must not
// mutate the returned slice.
func (ix *Index) Files() []Entry { return ix.entries }

// Len returns the number of tracked files in the snapshot.
func (ix *Index) Len() int { return len(ix.entries) }

// Contains reports whether relPath is a tracked file in the snapshot.
func (ix *Index) Contains(relPath string) bool {
	i := sort.Search(len(ix.entries), func(i int) bool {
		return ix.entries[i].Path >= relPath
	})
	return i < len(ix.entries) && ix.entries[i].Path == relPath
}

// IsDir reports whether relPath is a directory implied by at least one
// tracked file. The empty string denotes the root and is always a directory.
func (ix *Index) IsDir(relPath string) bool {
	if relPath == "" {
		return true
	}
	return len(ix.FilesUnder(relPath)) > 0
}

// FilesUnder returns the paths of all tracked files strictly under dir, in
// path order. dir is slash-separated and relative; the empty string means
// the repository root. Matching anchors on dir + "/" so that "lib" never
// matches "liberty".
func (ix *Index) FilesUnder(dir string) []string {
	var out []string
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}
	for _, e := range ix.entries {
		if prefix == "" || strings.HasPrefix(e.Path, prefix) {
			out = append(out, e.Path)
		}
	}
	return out
}
