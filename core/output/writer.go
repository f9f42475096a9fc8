// Package output delivers rendered clips.
// Writer stores a clip in a directory, named after the page it came from
// (e.g., en_wikipedia_org_wiki_Go.md). Stdout writes it to a stream, which
// is how the CLI hands a clip to a clipboard tool (pbcopy, wl-copy, xclip).
package output

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// defaultName is used when the page URL yields no usable filename.
const defaultName = "clip"

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Deliver writes data to <OutputDir>/<name from pageURL><ext> and returns the path.
func (w *Writer) Deliver(pageURL string, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, filenameFromURL(pageURL)+ext)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// Stdout writes rendered output to a stream.
type Stdout struct {
	W io.Writer
}

// NewStdout creates a Stdout sink on w, or on os.Stdout when w is nil.
func NewStdout(w io.Writer) *Stdout {
	if w == nil {
		w = os.Stdout
	}
	return &Stdout{W: w}
}

// Deliver writes data to the stream.
func (s *Stdout) Deliver(_ string, data []byte, _ string) (string, error) {
	if _, err := s.W.Write(data); err != nil {
		return "", fmt.Errorf("writing output: %w", err)
	}
	return "stdout", nil
}

// filenameFromURL converts a URL into a flat filename.
// Example: https://example.com/docs/intro → example_com_docs_intro
func filenameFromURL(rawURL string) string {
	if strings.TrimSpace(rawURL) == "" {
		return defaultName
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return sanitize(rawURL)
	}

	parts := []string{sanitize(parsed.Host)}
	path := strings.Trim(parsed.Path, "/")
	if path != "" {
		for _, seg := range strings.Split(path, "/") {
			parts = append(parts, sanitize(seg))
		}
	}
	return strings.Join(parts, "_")
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
