// Package metrics sizes the assembled artifact in bytes, tokens, and lines.
package metrics

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter reports the number of bytes, tokens, and lines in a text.
type Counter interface {
	Count(text string) (bytes, tokens, lines int)
}

// NewCounter returns the counter named by estimator: "simple" (bytes/4) or
// "tiktoken".
func NewCounter(estimator string) (Counter, error) {
	switch estimator {
	case "", "simple":
		return &SimpleCounter{}, nil
	case "tiktoken":
		return NewTiktokenCounter("gpt-3.5-turbo")
	default:
		return nil, fmt.Errorf("unknown token estimator: %s", estimator)
	}
}

// SimpleCounter estimates tokens as bytes/4.
type SimpleCounter struct{}

// Count returns bytes, estimated tokens, and lines for the given text.
func (c *SimpleCounter) Count(text string) (int, int, int) {
	byteCount := len(text)
	lines := bytes.Count([]byte(text), []byte{'\n'}) + 1
	return byteCount, byteCount / 4, lines
}

// TiktokenCounter counts tokens with the tiktoken library.
type TiktokenCounter struct {
	model string
}

// NewTiktokenCounter creates a TiktokenCounter for the given model.
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	if _, err := tiktoken.EncodingForModel(model); err != nil {
		return nil, fmt.Errorf("unsupported model for tiktoken: %s", model)
	}
	return &TiktokenCounter{model: model}, nil
}

// Count returns bytes, tokens, and lines for the given text. If the model
// lookup fails it falls back to the simple estimate.
func (c *TiktokenCounter) Count(text string) (int, int, int) {
	byteCount := len(text)
	lines := bytes.Count([]byte(text), []byte{'\n'}) + 1

	encoding, err := tiktoken.EncodingForModel(c.model)
	if err != nil {
		return byteCount, byteCount / 4, lines
	}
	tokens := encoding.Encode(strings.TrimSpace(text), nil, nil)
	return byteCount, len(tokens), lines
}

// Summary formats a one-line size report for the artifact.
func Summary(c Counter, fileCount int, text string) string {
	byteCount, tokens, lines := c.Count(text)
	return fmt.Sprintf("%d files, %d bytes, ~%d tokens, %d lines", fileCount, byteCount, tokens, lines)
}
