package repopick

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestBundleWriter_Output(t *testing.T) {
	assert := assert.New(t)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("hello\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "a.go"), []byte("package a"), 0644))

	bw := NewBundleWriter(root, testLogger())

	var buf bytes.Buffer
	tree := "README.md\nsrc/\n    a.go\n"
	err := bw.Output(&buf, tree, []string{"README.md", "src/a.go"})
	assert.NoError(err)

	out := buf.String()
	assert.Contains(out, fmt.Sprintf("Repository: %s (2 files)", filepath.Base(root)))
	assert.Contains(out, tree)
	assert.Contains(out, "===== BEGIN README.md =====\nhello\n===== END README.md =====")
	assert.Contains(out, "===== BEGIN src/a.go =====\npackage a\n===== END src/a.go =====",
		"content without a trailing newline gets exactly one added")

	readmeAt := bytes.Index(buf.Bytes(), []byte("BEGIN README.md"))
	srcAt := bytes.Index(buf.Bytes(), []byte("BEGIN src/a.go"))
	assert.Less(readmeAt, srcAt, "contents are emitted in the given path order")
}

func TestBundleWriter_SkipsUnreadable(t *testing.T) {
	assert := assert.New(t)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep.txt"), []byte("kept\n"), 0644))

	bw := NewBundleWriter(root, testLogger())
	bw.ReadFile = func(name string) ([]byte, error) {
		if filepath.Base(name) == "gone.txt" {
			return nil, os.ErrNotExist
		}
		return os.ReadFile(name)
	}

	var buf bytes.Buffer
	err := bw.Output(&buf, "", []string{"gone.txt", "keep.txt"})
	assert.NoError(err, "an unreadable file must not abort the bundle")
	assert.NotContains(buf.String(), "BEGIN gone.txt")
	assert.Contains(buf.String(), "===== BEGIN keep.txt =====\nkept\n===== END keep.txt =====")
}

func TestBundleWriter_BinaryOmitted(t *testing.T) {
	assert := assert.New(t)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.bin"), []byte{0x00, 0x01, 0xff, 0xfe, 0x00}, 0644))

	bw := NewBundleWriter(root, testLogger())

	var buf bytes.Buffer
	assert.NoError(bw.Output(&buf, "", []string{"blob.bin"}))
	assert.Contains(buf.String(), "(binary file omitted)")
	assert.NotContains(buf.String(), string([]byte{0x00, 0x01}))
}

func TestIsBinaryFile(t *testing.T) {
	assert := assert.New(t)

	assert.False(IsBinaryFile([]byte("plain text\nwith lines\n")))
	assert.False(IsBinaryFile(nil), "empty content is not binary")
	assert.True(IsBinaryFile([]byte{0x00, 0x01, 0x02, 0x03, 0xff, 0xfe, 0xfd, 0xfc}))
}
