// Package render provides output renderers for copymd clips.
// This file implements the Markdown renderer, a passthrough: Markdown is
// what the user asked to copy.
package render

import (
	"github.com/gaurav-prasanna/copymd/core"
)

// MarkdownRenderer writes Markdown as-is.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns the Markdown as bytes, newline-terminated.
func (r *MarkdownRenderer) Render(markdown string, meta core.PageMetadata) ([]byte, error) {
	if markdown == "" {
		return nil, nil
	}
	return []byte(markdown + "\n"), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
