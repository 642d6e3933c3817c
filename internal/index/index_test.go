package index

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// writeTree creates files under a temp dir and pins each mtime to a fixed
// offset so recency ordering is deterministic.
func writeTree(t *testing.T, files map[string]time.Time) string {
	t.Helper()
	tempDir := t.TempDir()

	for relPath, mtime := range files {
		path := filepath.Join(tempDir, filepath.FromSlash(relPath))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(relPath), 0644))
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
	return tempDir
}

func at(sec int64) time.Time {
	return time.Unix(sec, 0)
}

func TestBuild_SortedAndHiddenExcluded(t *testing.T) {
	assert := assert.New(t)

	root := writeTree(t, map[string]time.Time{
		"b.txt":          at(100),
		"a.txt":          at(200),
		"src/main.go":    at(300),
		".hidden":        at(400),
		"src/.env":       at(400),
		".git/config":    at(400),
		"docs/notes.txt": at(50),
	})

	ix, err := Build(context.Background(), root, discardLogger())
	assert.NoError(err)

	var paths []string
	for _, e := range ix.Files() {
		paths = append(paths, e.Path)
	}
	assert.Equal([]string{"a.txt", "b.txt", "docs/notes.txt", "src/main.go"}, paths,
		"entries should be path-sorted with hidden segments excluded")

	assert.True(ix.Contains("src/main.go"))
	assert.False(ix.Contains("src/.env"))
	assert.True(ix.IsDir("src"))
	assert.False(ix.IsDir("src/main.go"))
}

func TestDirTime_MaxOfDescendants(t *testing.T) {
	assert := assert.New(t)

	root := writeTree(t, map[string]time.Time{
		"README.md":        at(100),
		"src/a.go":         at(200),
		"src/b.go":         at(50),
		"src/nested/c.go":  at(150),
		"lib/x.go":         at(10),
		"liberty/loud.txt": at(999),
	})

	ix, err := Build(context.Background(), root, discardLogger())
	assert.NoError(err)

	assert.Equal(at(200), ix.DirTime("src"), "aggregate is the max over all files under src")
	assert.Equal(at(150), ix.DirTime("src/nested"))
	assert.Equal(at(999), ix.DirTime(""), "root aggregates the whole snapshot")
	assert.Equal(at(10), ix.DirTime("lib"), "prefix matching must not let lib absorb liberty")
}

func TestDirTime_Memoized(t *testing.T) {
	assert := assert.New(t)

	root := writeTree(t, map[string]time.Time{
		"src/a.go": at(200),
	})

	ix, err := Build(context.Background(), root, discardLogger())
	assert.NoError(err)

	first := ix.DirTime("src")
	assert.Contains(ix.dirTimes, "src", "first query caches the aggregate")

	// Poison the cache to prove the second query reads it instead of
	// rescanning the snapshot.
	ix.dirTimes["src"] = at(1)
	assert.Equal(at(1), ix.DirTime("src"))
	assert.Equal(at(200), first)
}

func TestDirTime_EmptyDirFallsBackToDiskMtime(t *testing.T) {
	assert := assert.New(t)

	root := writeTree(t, map[string]time.Time{
		"a.txt": at(100),
	})
	empty := filepath.Join(root, "empty")
	assert.NoError(os.Mkdir(empty, 0755))
	assert.NoError(os.Chtimes(empty, at(77), at(77)))

	ix, err := Build(context.Background(), root, discardLogger())
	assert.NoError(err)

	assert.Equal(at(77), ix.DirTime("empty"), "directory without tracked files uses its own mtime")
}

func TestFilesUnder(t *testing.T) {
	assert := assert.New(t)

	root := writeTree(t, map[string]time.Time{
		"README.md":       at(100),
		"src/a.go":        at(200),
		"src/nested/c.go": at(150),
	})

	ix, err := Build(context.Background(), root, discardLogger())
	assert.NoError(err)

	assert.Equal([]string{"src/a.go", "src/nested/c.go"}, ix.FilesUnder("src"))
	assert.Equal([]string{"README.md", "src/a.go", "src/nested/c.go"}, ix.FilesUnder(""))
	assert.Empty(ix.FilesUnder("docs"))
}
