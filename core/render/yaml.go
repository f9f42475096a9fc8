// Package render — YAML renderer.
// Same document as the JSON renderer, encoded with yaml.v3.
package render

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/copymd/core"
)

// YAMLRenderer produces structured YAML output from Markdown.
type YAMLRenderer struct{}

// NewYAMLRenderer creates a YAMLRenderer.
func NewYAMLRenderer() *YAMLRenderer {
	return &YAMLRenderer{}
}

// Render converts Markdown and metadata into a YAML document.
func (r *YAMLRenderer) Render(markdown string, meta core.PageMetadata) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(buildDocument(markdown, meta)); err != nil {
		return nil, fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("flushing YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for YAML output.
func (r *YAMLRenderer) Extension() string {
	return ".yaml"
}
