// Package render — JSON renderer.
// Builds a structured document from a clip: metadata, the Markdown itself,
// plain text, headings, links and footnotes parsed back out of the Markdown.
package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/copymd/core"
)

// JSONRenderer produces structured JSON output from Markdown.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render converts Markdown and metadata into an indented JSON document.
func (r *JSONRenderer) Render(markdown string, meta core.PageMetadata) ([]byte, error) {
	data, err := json.MarshalIndent(buildDocument(markdown, meta), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// buildDocument parses the structure of a clip. Shared with the YAML renderer.
func buildDocument(markdown string, meta core.PageMetadata) core.ClipDocument {
	footnotes := extractFootnotes(markdown)
	meta.Footnotes = len(footnotes)
	return core.ClipDocument{
		Metadata:  meta,
		Markdown:  markdown,
		Text:      stripMarkdown(markdown),
		Headings:  extractHeadings(markdown),
		Links:     extractLinks(markdown),
		Footnotes: footnotes,
	}
}

// --- Markdown parsing helpers ---

var headingRegex = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

func extractHeadings(md string) []core.Heading {
	matches := headingRegex.FindAllStringSubmatch(md, -1)
	headings := make([]core.Heading, 0, len(matches))
	for _, m := range matches {
		headings = append(headings, core.Heading{
			Level: len(m[1]),
			Text:  strings.TrimSpace(m[2]),
		})
	}
	return headings
}

// linkRegex matches Markdown links [text](url). Images are skipped by the caller.
var linkRegex = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)]+)\)`)

func extractLinks(md string) []core.Link {
	matches := linkRegex.FindAllStringSubmatch(md, -1)
	links := make([]core.Link, 0, len(matches))
	for _, m := range matches {
		if m[1] == "!" {
			continue
		}
		links = append(links, core.Link{
			Text: m[2],
			Href: m[3],
		})
	}
	return links
}

// footnoteDefRegex matches footnote definitions "[^id]: url".
var footnoteDefRegex = regexp.MustCompile(`(?m)^\[\^([^\]\s]+)\]:\s*(\S+)\s*$`)

// footnoteRefRegex matches inline footnote references "[^id]".
var footnoteRefRegex = regexp.MustCompile(`\s?\[\^[^\]\s]+\]`)

func extractFootnotes(md string) []core.Footnote {
	matches := footnoteDefRegex.FindAllStringSubmatch(md, -1)
	footnotes := make([]core.Footnote, 0, len(matches))
	for _, m := range matches {
		footnotes = append(footnotes, core.Footnote{ID: m[1], URL: m[2]})
	}
	return footnotes
}

// stripMarkdown removes common Markdown formatting to produce plain text.
// Footnote definitions and references are dropped.
func stripMarkdown(md string) string {
	text := footnoteDefRegex.ReplaceAllString(md, "")
	text = footnoteRefRegex.ReplaceAllString(text, "")
	text = headingRegex.ReplaceAllString(text, "$2")
	text = regexp.MustCompile(`\*{1,3}([^*]+)\*{1,3}`).ReplaceAllString(text, "$1")
	text = linkRegex.ReplaceAllString(text, "$2")
	text = strings.ReplaceAll(text, "```", "")
	text = regexp.MustCompile("`([^`]+)`").ReplaceAllString(text, "$1")
	text = regexp.MustCompile(`\n{3,}`).ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
