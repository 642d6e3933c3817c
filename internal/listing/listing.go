// Package listing computes the recency-ordered view of one directory:
// immediate files and subdirectories merged and sorted newest-first, with a
// short preview of the most recently touched directories.
package listing

import (
	"sort"
	"strings"
	"time"

	"github.com/hayeah/repopick/internal/index"
)

const (
	// previewDirs caps how many directories per listing get a preview.
	previewDirs = 3
	// previewItems caps how many child names one preview shows.
	previewItems = 3
)

// EmptyDirPreview is the sentinel preview line for a directory that exists
// but has no tracked children.
const EmptyDirPreview = "(Empty directory)"

// Item is one row of a directory listing: a file or a subdirectory.
type Item struct {
	Name    string
	Dir     bool
	ModTime time.Time
	// Preview holds up to previewItems child names for a directory,
	// newest-first. Nil for files and for directories past the preview cap.
	Preview []string
}

// Lister produces listings against one immutable index snapshot.
type Lister struct {
	Index *index.Index
}

// New creates a Lister over ix.
func New(ix *index.Index) *Lister {
	return &Lister{Index: ix}
}

// List returns the immediate children of dir (slash-separated, relative;
// "" for the repository root) sorted by recency descending, with previews
// attached to the first few directories in listing order. The sort is
// stable over the index's path order, so repeated listings of an unchanged
// directory are identical item for item.
func (l *Lister) List(dir string) []Item {
	items := l.children(dir)

	count := 0
	for i := range items {
		if !items[i].Dir || count == previewDirs {
			continue
		}
		items[i].Preview = l.preview(childPath(dir, items[i].Name))
		count++
	}
	return items
}

// children merges immediate file entries with implied subdirectories and
// sorts the result.
func (l *Lister) children(dir string) []Item {
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}

	var items []Item
	seenDirs := make(map[string]bool)

	for _, e := range l.Index.Files() {
		if prefix != "" && !strings.HasPrefix(e.Path, prefix) {
			continue
		}
		rest := strings.TrimPrefix(e.Path, prefix)
		slash := strings.IndexByte(rest, '/')
		if slash < 0 {
			// Immediate file child.
			items = append(items, Item{Name: rest, ModTime: e.ModTime})
			continue
		}
		name := rest[:slash]
		if seenDirs[name] {
			continue
		}
		seenDirs[name] = true
		items = append(items, Item{
			Name:    name,
			Dir:     true,
			ModTime: l.Index.DirTime(childPath(dir, name)),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ModTime.After(items[j].ModTime)
	})
	return items
}

// preview returns up to previewItems name-only lines for dir, newest first.
// Directory names carry a trailing slash. An empty directory yields the
// sentinel line rather than an empty slice.
func (l *Lister) preview(dir string) []string {
	children := l.children(dir)
	if len(children) == 0 {
		return []string{EmptyDirPreview}
	}

	n := len(children)
	if n > previewItems {
		n = previewItems
	}
	lines := make([]string, 0, n)
	for _, c := range children[:n] {
		if c.Dir {
			lines = append(lines, c.Name+"/")
		} else {
			lines = append(lines, c.Name)
		}
	}
	return lines
}

func childPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
