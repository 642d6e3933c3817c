package treeview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_OrderIndependent(t *testing.T) {
	assert := assert.New(t)

	a := Render([]string{"a/b.txt", "a/c.txt"})
	b := Render([]string{"a/c.txt", "a/b.txt"})
	assert.Equal(a, b, "same set must render byte-identically regardless of input order")
	assert.Equal("a/\n    b.txt\n    c.txt\n", a)
}

func TestRender_CommonPrefixFolding(t *testing.T) {
	assert := assert.New(t)

	out := Render([]string{
		"src/a.go",
		"README.md",
		"src/nested/c.go",
		"src/b.go",
	})

	assert.Equal(
		"README.md\n"+
			"src/\n"+
			"    a.go\n"+
			"    b.go\n"+
			"    nested/\n"+
			"        c.go\n",
		out,
		"each directory header appears once, before its first child")
}

func TestRender_RootFilesUnindented(t *testing.T) {
	assert := assert.New(t)

	out := Render([]string{"b.txt", "a.txt"})
	assert.Equal("a.txt\nb.txt\n", out)
}

func TestRender_SiblingDirectoriesReset(t *testing.T) {
	assert := assert.New(t)

	out := Render([]string{"a/x/1.txt", "b/x/2.txt"})
	assert.Equal(
		"a/\n"+
			"    x/\n"+
			"        1.txt\n"+
			"b/\n"+
			"    x/\n"+
			"        2.txt\n",
		out,
		"a shared name under a different parent is a new header")
}

func TestSortPaths_VersionAware(t *testing.T) {
	assert := assert.New(t)

	sorted := SortPaths([]string{"v10/a.txt", "v2/a.txt", "v1/a.txt"})
	assert.Equal([]string{"v1/a.txt", "v2/a.txt", "v10/a.txt"}, sorted,
		"numeric runs compare by value")
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", Render(nil))
}
