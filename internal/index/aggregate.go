package index

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DirTime returns the recency timestamp of a directory: the maximum ModTime
// of any tracked file transitively under it. Results are memoized for the
// lifetime of the index; the snapshot never changes, so a cached value is
// always valid. For a directory with no tracked files beneath it, the
// directory's own filesystem mtime is used so every directory stays
// orderable.
func (ix *Index) DirTime(dir string) time.Time {
	ix.mu.Lock()
	if t, ok := ix.dirTimes[dir]; ok {
		ix.mu.Unlock()
		return t
	}
	ix.mu.Unlock()

	t := ix.computeDirTime(dir)

	ix.mu.Lock()
	ix.dirTimes[dir] = t
	ix.mu.Unlock()
	return t
}

func (ix *Index) computeDirTime(dir string) time.Time {
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}

	var max time.Time
	found := false
	for _, e := range ix.entries {
		if prefix != "" && !strings.HasPrefix(e.Path, prefix) {
			continue
		}
		if !found || e.ModTime.After(max) {
			max = e.ModTime
			found = true
		}
	}
	if found {
		return max
	}

	// No tracked file under dir. Fall back to the on-disk mtime.
	info, err := os.Stat(filepath.Join(ix.root, filepath.FromSlash(dir)))
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
