// Package treeview reconstructs a directory tree from an arbitrary set of
// relative file paths and renders it with common-prefix compression: each
// directory header is printed exactly once, immediately before its first
// descendant in sorted order.
package treeview

import (
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// indentUnit is one level of tree depth.
const indentUnit = "    "

// SortPaths returns a copy of paths in version-aware lexical order: numeric
// runs compare by value, so "v2" sorts before "v10". This order is
// load-bearing: it decides both the rendered tree and the order file
// contents are emitted in.
func SortPaths(paths []string) []string {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.SliceStable(sorted, func(i, j int) bool {
		return natural.Less(sorted[i], sorted[j])
	})
	return sorted
}

// Render produces the compressed tree text for the given slash-separated
// relative paths. Input order is irrelevant; the same set always renders to
// byte-identical output.
func Render(paths []string) string {
	sorted := SortPaths(paths)

	var b strings.Builder
	var prevDirs []string

	for _, path := range sorted {
		segs := strings.Split(path, "/")
		dirs, file := segs[:len(segs)-1], segs[len(segs)-1]

		// Emit only the directory segments not shared with the previous
		// entry's directory chain.
		shared := commonPrefix(prevDirs, dirs)
		for i := shared; i < len(dirs); i++ {
			b.WriteString(strings.Repeat(indentUnit, i))
			b.WriteString(dirs[i])
			b.WriteString("/\n")
		}

		b.WriteString(strings.Repeat(indentUnit, len(dirs)))
		b.WriteString(file)
		b.WriteString("\n")

		prevDirs = dirs
	}
	return b.String()
}

// commonPrefix returns the length of the shared leading segment run.
func commonPrefix(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
