// Package linkify rewrites bare URLs in plain text as labeled Markdown links.
package linkify

import (
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/copymd/core/canonical"
)

// bareURLRegex matches http(s) URLs up to whitespace, square or angle
// brackets, or a double quote. Parentheses are trimmed by trimURL.
var bareURLRegex = regexp.MustCompile(`https?://[^\s\[\]<>"]+`)

// trailingPunct is sentence punctuation that ends a URL in prose.
const trailingPunct = `.,;:!?'"`

// labelEscaper keeps labels from closing the link text early.
var labelEscaper = strings.NewReplacer(`[`, `\[`, `]`, `\]`)

// Page describes the page a selection was copied from.
type Page struct {
	URL   string `json:"url" yaml:"url"`
	Title string `json:"title" yaml:"title"`
}

// Linkifier rewrites bare URLs relative to one page.
type Linkifier struct {
	page Page
}

// New creates a Linkifier for page.
func New(page Page) *Linkifier {
	return &Linkifier{page: page}
}

// Linkify replaces every bare URL in segment with [label](canonicalURL).
// segment must not contain Markdown link tokens; text around the URLs is
// passed through untouched.
func (l *Linkifier) Linkify(segment string) string {
	if !strings.Contains(segment, "http") {
		return segment
	}

	locs := bareURLRegex.FindAllStringIndex(segment, -1)
	if len(locs) == 0 {
		return segment
	}

	var b strings.Builder
	b.Grow(len(segment))
	last := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if inLinkSlot(segment[:start]) {
			continue
		}
		raw := trimURL(segment[start:end])
		if strings.HasSuffix(raw, "://") {
			continue
		}
		end = start + len(raw)

		b.WriteString(segment[last:start])
		canonicalURL := canonical.Canonicalize(raw, l.page.URL)
		b.WriteString("[" + l.SmartLabel(canonicalURL) + "](" + canonical.EscapeDestination(canonicalURL) + ")")
		last = end
	}
	b.WriteString(segment[last:])
	return b.String()
}

// inLinkSlot reports whether a URL starting right after before is already
// the destination of a link or an autolink.
func inLinkSlot(before string) bool {
	return strings.HasSuffix(before, "](") || strings.HasSuffix(before, "<")
}

// trimURL drops trailing sentence punctuation and closing parentheses that
// have no opening partner inside the URL, so "(see https://a.example/x)"
// ends before the ")" while ".../Go_(language)" keeps it.
func trimURL(raw string) string {
	for {
		trimmed := strings.TrimRight(raw, trailingPunct)
		if strings.HasSuffix(trimmed, ")") && strings.Count(trimmed, ")") > strings.Count(trimmed, "(") {
			trimmed = trimmed[:len(trimmed)-1]
		}
		if trimmed == raw {
			return raw
		}
		raw = trimmed
	}
}

// SmartLabel chooses the display text for u: the page title when u is on
// the page's own origin (hostname if the title is empty), the hostname
// otherwise. The label is escaped for use as link text.
func (l *Linkifier) SmartLabel(u string) string {
	host := canonical.Hostname(u)
	label := host
	if canonical.SameOrigin(u, l.page.URL) {
		if title := strings.TrimSpace(l.page.Title); title != "" {
			label = title
		}
	}
	if label == "" {
		label = u
	}
	return labelEscaper.Replace(label)
}
