// Package postprocess rewrites baseline Markdown produced from a selection.
// One left-to-right pass routes every inline link through the citation
// classifier and footnote allocator, and every stretch of plain text
// between tokens through the linkifier. Footnote definitions are appended
// at the end.
package postprocess

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gaurav-prasanna/copymd/core"
	"github.com/gaurav-prasanna/copymd/core/canonical"
	"github.com/gaurav-prasanna/copymd/core/citation"
	"github.com/gaurav-prasanna/copymd/core/footnote"
	"github.com/gaurav-prasanna/copymd/core/linkify"
	"github.com/gaurav-prasanna/copymd/internal/logger"
)

// linkText matches link text: escaped characters, anything but brackets,
// and one level of balanced brackets ("[[9]]" as well as "[\[9\]]").
const linkText = `(?:\\.|[^\[\]\\]|\[(?:\\.|[^\[\]\\])*\])*`

// tokenRegex finds the spans the pass treats as units. Only "link" is
// rewritten; the others are copied through so the linkifier never sees
// code, existing URLs or footnote definitions. "esc" keeps an escaped
// character such as `\!` from starting an image or a code span.
var tokenRegex = regexp.MustCompile(
	"(?P<fence>```(?s:.*?)```)" +
		"|(?P<code>`[^`\n]+`)" +
		`|(?P<def>(?m:^\[\^[^\]\n]+\]:[^\n]*))` +
		`|(?P<auto><https?://[^\s>]+>)` +
		`|(?P<image>!\[` + linkText + `\]\([^)]*\))` +
		`|(?P<link>\[(?P<text>` + linkText + `)\]\((?P<dest>[^)]+)\))` +
		`|(?P<esc>\\[^\n])`,
)

var (
	linkGroup = tokenRegex.SubexpIndex("link")
	textGroup = tokenRegex.SubexpIndex("text")
	destGroup = tokenRegex.SubexpIndex("dest")
)

var blankRunRegex = regexp.MustCompile(`\n{3,}`)

var (
	errEmptyDestination  = errors.New("empty link destination")
	errScriptDestination = errors.New("script URL cannot be a footnote")
)

// Result is the output of one pass.
type Result struct {
	Markdown  string
	Footnotes []footnote.Entry
	// Failures counts spans emitted unchanged because rewriting them failed.
	Failures int
}

// Option configures a Processor.
type Option func(*Processor)

// WithClassifier replaces the anchor text classifier.
func WithClassifier(fn func(text string) citation.Marker) Option {
	return func(p *Processor) {
		p.classify = fn
	}
}

// Processor is the Markdown post-processor. It holds no per-pass state
// and is safe for concurrent use.
type Processor struct {
	classify func(text string) citation.Marker
}

// New creates a Processor.
func New(opts ...Option) *Processor {
	p := &Processor{classify: citation.Classify}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// pass is the state of one Process call.
type pass struct {
	page      linkify.Page
	ns        *footnote.Namespace
	linkifier *linkify.Linkifier
	out       strings.Builder
	failures  int
}

// Process rewrites baseline Markdown copied from page.
// It never fails: a span that cannot be rewritten is emitted unchanged.
func (p *Processor) Process(markdown string, page linkify.Page) Result {
	ps := &pass{
		page:      page,
		ns:        footnote.NewNamespace(),
		linkifier: linkify.New(page),
	}
	ps.out.Grow(len(markdown))

	last := 0
	for _, m := range tokenRegex.FindAllStringSubmatchIndex(markdown, -1) {
		start, end := m[0], m[1]
		ps.emitText(markdown[last:start])

		token := markdown[start:end]
		if m[2*linkGroup] >= 0 {
			text := markdown[m[2*textGroup]:m[2*textGroup+1]]
			dest := markdown[m[2*destGroup]:m[2*destGroup+1]]
			ps.emitLink(p.classify, token, text, dest)
		} else {
			ps.out.WriteString(token)
		}
		last = end
	}
	ps.emitText(markdown[last:])

	body := ps.out.String()
	if ps.ns.Len() > 0 {
		body = strings.TrimSpace(body) + "\n\n" + ps.ns.Definitions()
	}

	return Result{
		Markdown:  Tidy(body),
		Footnotes: ps.ns.Entries(),
		Failures:  ps.failures,
	}
}

// Tidy collapses runs of three or more newlines to a blank line and trims.
func Tidy(markdown string) string {
	return strings.TrimSpace(blankRunRegex.ReplaceAllString(markdown, "\n\n"))
}

func (ps *pass) emitText(text string) {
	if text == "" {
		return
	}
	linked, err := guard(func() (string, error) {
		return ps.linkifier.Linkify(text), nil
	})
	if err != nil {
		ps.fail(text, err)
		ps.out.WriteString(text)
		return
	}
	ps.out.WriteString(linked)
}

func (ps *pass) emitLink(classify func(string) citation.Marker, token, text, dest string) {
	ref, err := guard(func() (string, error) {
		return ps.footnoteRef(classify, text, dest)
	})
	switch {
	case err != nil:
		ps.fail(token, err)
		ps.out.WriteString(token)
	case ref == "":
		ps.out.WriteString(token)
	default:
		if r, _ := utf8.DecodeLastRuneInString(ps.out.String()); isWordRune(r) {
			ps.out.WriteByte(' ')
		}
		ps.out.WriteString(ref)
	}
}

// footnoteRef returns the "[^id]" token replacing a citation link, or ""
// when the link is a normal link.
func (ps *pass) footnoteRef(classify func(string) citation.Marker, text, dest string) (string, error) {
	marker := classify(text)
	if !marker.IsCitation() {
		return "", nil
	}

	href := destinationURL(dest)
	if href == "" {
		return "", errEmptyDestination
	}
	canonicalURL := canonical.Canonicalize(href, ps.page.URL)
	if canonical.IsScriptURL(canonicalURL) {
		return "", errScriptDestination
	}

	id := ps.ns.Allocate(canonicalURL, marker)
	return "[^" + id + "]", nil
}

func (ps *pass) fail(span string, err error) {
	ps.failures++
	perr := &core.ProcessingError{Span: span, Err: err}
	logger.Warn("span left unchanged", "error", perr)
}

// guard runs fn, turning a panic into an error so one bad span cannot
// abort the pass.
func guard(fn func() (string, error)) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("recovered: %v", r)
		}
	}()
	return fn()
}

// destinationURL drops an optional link title and angle brackets:
// `<https://a.example/x> "Title"` gives https://a.example/x.
func destinationURL(dest string) string {
	dest = strings.TrimSpace(dest)
	if strings.HasPrefix(dest, "<") {
		if i := strings.IndexByte(dest, '>'); i > 0 {
			return dest[1:i]
		}
	}
	fields := strings.Fields(dest)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
