// Package clipboard delivers the assembled artifact to the system
// clipboard, falling back to a temp file so a clipboard failure never
// loses the computed text.
package clipboard

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
)

// Sink identifies where the text ended up.
type Sink int

const (
	// Clipboard means the system clipboard took the text.
	Clipboard Sink = iota
	// FallbackFile means the text was persisted to Result.Path instead.
	FallbackFile
)

// Result reports which sink took the text.
type Result struct {
	Sink Sink
	Path string // set when Sink == FallbackFile
}

// writeAll is swappable for tests.
var writeAll = clipboard.WriteAll

// Write copies text to the system clipboard. If that fails, the text is
// written to a discoverable temp file and its path returned; only a failure
// of the fallback itself is an error.
func Write(text string) (Result, error) {
	if err := writeAll(text); err == nil {
		return Result{Sink: Clipboard}, nil
	}

	f, err := os.CreateTemp("", "repopick-*.txt")
	if err != nil {
		return Result{}, fmt.Errorf("clipboard unavailable and temp file creation failed: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(text); err != nil {
		return Result{}, fmt.Errorf("clipboard unavailable and fallback write to %s failed: %w", f.Name(), err)
	}
	return Result{Sink: FallbackFile, Path: f.Name()}, nil
}
