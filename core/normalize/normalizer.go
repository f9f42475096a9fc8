// Package normalize implements the Normalizer interface.
// It converts a selected HTML fragment into baseline Markdown. Links are
// rewritten at conversion time: hrefs are made absolute against the page
// URL and stripped of tracking parameters before the post-processor sees them.
package normalize

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/copymd/core/canonical"
	"github.com/gaurav-prasanna/copymd/core/postprocess"
)

// MarkdownNormalizer converts HTML to Markdown using html-to-markdown.
type MarkdownNormalizer struct{}

// New creates a MarkdownNormalizer.
func New() *MarkdownNormalizer {
	return &MarkdownNormalizer{}
}

// Normalize converts an HTML fragment copied from the page at baseURL
// into Markdown with ATX headings and "-" bullets.
func (n *MarkdownNormalizer) Normalize(fragment string, baseURL string) (string, error) {
	markdown, err := newConverter(baseURL).ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return postprocess.Tidy(markdown), nil
}

// newConverter builds a converter whose link rule resolves against baseURL.
func newConverter(baseURL string) *converter.Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle(commonmark.HeadingStyleATX),
				commonmark.WithBulletListMarker("-"),
			),
		),
	)

	// PriorityEarly (100) runs before the commonmark link renderer (500).
	conv.Register.RendererFor("a", converter.TagTypeInline,
		func(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
			return renderLink(ctx, w, n, baseURL)
		},
		converter.PriorityEarly,
	)
	return conv
}

// renderLink writes [text](url) with a canonical url, or <url> when the
// anchor has no text. Anchors without an href go to the next renderer.
func renderLink(ctx converter.Context, w converter.Writer, n *html.Node, baseURL string) converter.RenderStatus {
	href := strings.TrimSpace(dom.GetAttributeOr(n, "href", ""))
	if href == "" {
		return converter.RenderTryNext
	}
	dest := canonical.EscapeDestination(canonical.Canonicalize(href, baseURL))

	// Text rendered inside a link gets its "]" escaped by commonmark.
	ctx = ctx.WithValue("is_inside_link", true)

	var buf bytes.Buffer
	ctx.RenderChildNodes(ctx, &buf, n)
	text := strings.Join(strings.Fields(string(ctx.UnEscapeContent(buf.Bytes()))), " ")
	text = escapeBrackets(text)

	if text == "" {
		w.WriteString("<" + dest + ">")
		return converter.RenderSuccess
	}
	w.WriteString("[" + text + "](" + dest + ")")
	return converter.RenderSuccess
}

// escapeBrackets escapes every "[" and "]" outside code spans, so anchor
// text like "[1]" always comes out as "\[1\]". Existing escapes are kept.
func escapeBrackets(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 4)
	inCode := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '`':
			inCode = !inCode
			b.WriteByte(c)
		case inCode:
			b.WriteByte(c)
		case c == '\\' && i+1 < len(text):
			b.WriteByte(c)
			b.WriteByte(text[i+1])
			i++
		case c == '[' || c == ']':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
