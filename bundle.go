// Package repopick assembles the final bundled artifact: a header, the
// rendered selection tree, and the content of every selected file in a
// stable order.
package repopick

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"unicode"
	"unicode/utf8"
)

// BundleWriter concatenates selected files into one text artifact. Byte
// reading and binary detection are collaborator concerns: ReadFile is
// swappable for tests, and a binary-detected file is skipped with a notice
// instead of embedding raw bytes.
type BundleWriter struct {
	Root     string // absolute repository root
	Logger   *slog.Logger
	ReadFile func(name string) ([]byte, error)
}

// NewBundleWriter creates a writer for the repository at root.
func NewBundleWriter(root string, logger *slog.Logger) *BundleWriter {
	return &BundleWriter{
		Root:     root,
		Logger:   logger,
		ReadFile: os.ReadFile,
	}
}

// Output writes the header, the rendered tree, and each file's content in
// the order of relPaths (the caller passes them already tree-sorted). A
// file that became unreadable since selection is logged and skipped; it
// never aborts the rest of the bundle.
func (bw *BundleWriter) Output(w io.Writer, tree string, relPaths []string) error {
	repoName := filepath.Base(bw.Root)
	if _, err := fmt.Fprintf(w, "Repository: %s (%d files)\n\n%s\n", repoName, len(relPaths), tree); err != nil {
		return err
	}

	for _, rel := range relPaths {
		content, err := bw.ReadFile(filepath.Join(bw.Root, filepath.FromSlash(rel)))
		if err != nil {
			bw.Logger.Warn("skipping unreadable file", slog.String("path", rel), slog.String("error", err.Error()))
			continue
		}

		if _, err := fmt.Fprintf(w, "===== BEGIN %s =====\n", rel); err != nil {
			return err
		}

		if IsBinaryFile(content) {
			if _, err := fmt.Fprintln(w, "(binary file omitted)"); err != nil {
				return err
			}
		} else {
			if _, err := w.Write(content); err != nil {
				return err
			}
			// Exactly one trailing newline, so the closing delimiter is
			// never glued to content.
			if len(content) == 0 || content[len(content)-1] != '\n' {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
		}

		if _, err := fmt.Fprintf(w, "===== END %s =====\n\n", rel); err != nil {
			return err
		}
	}

	return nil
}

// IsBinaryFile checks whether content is likely binary by sampling the
// first 100 runes and counting how many are not printable Unicode.
func IsBinaryFile(content []byte) bool {
	const sampleSize = 100
	var nonPrintable int
	var totalRunes int

	for i := 0; i < len(content) && totalRunes < sampleSize; {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError {
			nonPrintable++
		} else if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			nonPrintable++
		}
		i += size
		totalRunes++
	}

	if totalRunes == 0 {
		return false
	}
	return float64(nonPrintable)/float64(totalRunes) > 0.1
}
