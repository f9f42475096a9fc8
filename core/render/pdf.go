// Package render — PDF renderer.
// Converts a clip into a styled PDF using gofpdf.
// Handles headings, paragraphs, code blocks and lists; footnote
// definitions are collected into a trailing "Notes" section.
package render

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/copymd/core"
)

var (
	numberedItemRegex = regexp.MustCompile(`^\d+\.\s`)
	italicRegex       = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	inlineCodeRegex   = regexp.MustCompile("`([^`]+)`")
	inlineLinkRegex   = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
	inlineRefRegex    = regexp.MustCompile(`\[\^([^\]\s]+)\]`)
)

// PDFRenderer renders Markdown content as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render converts Markdown into PDF bytes.
func (r *PDFRenderer) Render(markdown string, meta core.PageMetadata) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if meta.Title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.MultiCell(0, 8, tr(meta.Title), "", "L", false)
		pdf.Ln(4)
	}

	if meta.URL != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, tr("Source: "+meta.URL), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(6)
	}

	notes := extractFootnotes(markdown)
	body := footnoteDefRegex.ReplaceAllString(markdown, "")

	lines := strings.Split(body, "\n")
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			pdf.Ln(2)
			continue
		}

		if inCodeBlock {
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.MultiCell(0, 4.5, tr(line), "", "L", true)
			continue
		}

		if strings.TrimSpace(line) == "" {
			pdf.Ln(3)
			continue
		}

		if strings.HasPrefix(line, "#") {
			level := len(line) - len(strings.TrimLeft(line, "#"))
			text := strings.TrimSpace(strings.TrimLeft(line, "# "))
			renderHeading(pdf, tr(cleanInlineMarkdown(text)), level)
			continue
		}

		trimmed := strings.TrimSpace(line)
		pdf.SetFont("Helvetica", "", 10)
		switch {
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			text := "• " + cleanInlineMarkdown(trimmed[2:])
			pdf.MultiCell(0, 5, tr(text), "", "L", false)
		case numberedItemRegex.MatchString(trimmed):
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(trimmed)), "", "L", false)
		default:
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(line)), "", "L", false)
		}
	}

	if len(notes) > 0 {
		renderHeading(pdf, "Notes", 2)
		pdf.SetFont("Helvetica", "", 9)
		for _, n := range notes {
			pdf.MultiCell(0, 4.5, tr("["+n.ID+"] "+n.URL), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, text, "", "L", false)
	pdf.Ln(2)
}

// cleanInlineMarkdown strips inline Markdown formatting for PDF rendering.
// Footnote references become "[id]".
func cleanInlineMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = italicRegex.ReplaceAllString(text, " $1 ")
	text = inlineCodeRegex.ReplaceAllString(text, "$1")
	text = inlineRefRegex.ReplaceAllString(text, "[$1]")
	text = inlineLinkRegex.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
