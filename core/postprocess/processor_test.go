package postprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/copymd/core/citation"
	"github.com/gaurav-prasanna/copymd/core/footnote"
	"github.com/gaurav-prasanna/copymd/core/linkify"
)

var otherPage = linkify.Page{URL: "https://other.example/page", Title: "Other"}

func TestProcess(t *testing.T) {
	tests := []struct {
		name string
		page linkify.Page
		in   string
		want string
	}{
		{
			name: "same URL deduplicated after stripping",
			page: otherPage,
			in:   "See [9](https://a.example/?utm_source=x) and [9](https://a.example/)",
			want: "See [^9] and [^9]\n\n[^9]: https://a.example/",
		},
		{
			name: "symbols get generated IDs",
			page: otherPage,
			in:   "Note [*](https://b.example/p) and [†](https://b.example/q)",
			want: "Note [^fn1] and [^fn2]\n\n[^fn1]: https://b.example/p\n[^fn2]: https://b.example/q",
		},
		{
			name: "bare URL linkified",
			page: linkify.Page{URL: "https://elsewhere.example/"},
			in:   "Visit https://x.example/page for more",
			want: "Visit [x.example](https://x.example/page) for more",
		},
		{
			name: "citation needed with space insertion",
			page: otherPage,
			in:   "Go is fast[citation needed](https://c.example/cn?utm_campaign=y).",
			want: "Go is fast [^citationneeded].\n\n[^citationneeded]: https://c.example/cn",
		},
		{
			name: "label collision",
			page: otherPage,
			in:   "[9](https://a.example/1) [9](https://a.example/2)",
			want: "[^9] [^9-2]\n\n[^9]: https://a.example/1\n[^9-2]: https://a.example/2",
		},
		{
			name: "different labels same URL",
			page: otherPage,
			in:   "A[1](https://a.example/x?gclid=1) B[note 2](https://a.example/x)",
			want: "A [^1] B [^1]\n\n[^1]: https://a.example/x",
		},
		{
			name: "relative citation resolved against page",
			page: linkify.Page{URL: "https://en.wikipedia.org/wiki/Go"},
			in:   `Go[\[1\]](#cite_note-1)`,
			want: "Go [^1]\n\n[^1]: https://en.wikipedia.org/wiki/Go#cite_note-1",
		},
		{
			name: "double brackets",
			page: otherPage,
			in:   "Claim.[[9]](https://a.example/n)",
			want: "Claim.[^9]\n\n[^9]: https://a.example/n",
		},
		{
			name: "unicode letter before citation",
			page: otherPage,
			in:   "café[3](https://a.example/)",
			want: "café [^3]\n\n[^3]: https://a.example/",
		},
		{
			name: "note label",
			page: otherPage,
			in:   "text (note 4)[note 4](https://a.example/n4)",
			want: "text (note 4)[^note4]\n\n[^note4]: https://a.example/n4",
		},
		{
			name: "link with title",
			page: otherPage,
			in:   `x [2](https://a.example/t "Source")`,
			want: "x [^2]\n\n[^2]: https://a.example/t",
		},
		{
			name: "normal link untouched",
			page: otherPage,
			in:   "[Read more](https://example.com/x?utm_source=a)",
			want: "[Read more](https://example.com/x?utm_source=a)",
		},
		{
			name: "URL inside link not linkified",
			page: otherPage,
			in:   "[Docs](https://docs.example/start) and https://x.example/",
			want: "[Docs](https://docs.example/start) and [x.example](https://x.example/)",
		},
		{
			name: "code span untouched",
			page: otherPage,
			in:   "Run `curl https://x.example/` now",
			want: "Run `curl https://x.example/` now",
		},
		{
			name: "fenced code untouched",
			page: otherPage,
			in:   "```\n[1](https://a.example/)\nhttps://x.example/\n```",
			want: "```\n[1](https://a.example/)\nhttps://x.example/\n```",
		},
		{
			name: "image untouched",
			page: otherPage,
			in:   "![1](https://img.example/a.png)",
			want: "![1](https://img.example/a.png)",
		},
		{
			name: "autolink untouched",
			page: otherPage,
			in:   "<https://x.example/>",
			want: "<https://x.example/>",
		},
		{
			name: "URL with parentheses linkified whole",
			page: otherPage,
			in:   "See https://en.wikipedia.org/wiki/Go_(language) now",
			want: "See [en.wikipedia.org](https://en.wikipedia.org/wiki/Go_%28language%29) now",
		},
		{
			name: "deeply nested link text not rewritten",
			page: otherPage,
			in:   "[a [b [c]] d](https://x.example/p)",
			want: "[a [b [c]] d](https://x.example/p)",
		},
		{
			name: "bang before citation reads as an image",
			page: otherPage,
			in:   "Wow![1](https://a.example/u)",
			want: "Wow![1](https://a.example/u)",
		},
		{
			name: "escaped bang before citation",
			page: otherPage,
			in:   `Wow\![1](https://a.example/u)`,
			want: "Wow\\![^1]\n\n[^1]: https://a.example/u",
		},
		{
			name: "escaped backtick is not a code span",
			page: otherPage,
			in:   "a \\` https://x.example/ `b`",
			want: "a \\` [x.example](https://x.example/) `b`",
		},
		{
			name: "blank lines collapsed",
			page: otherPage,
			in:   "\n\na\n\n\n\nb\n\n",
			want: "a\n\nb",
		},
		{
			name: "empty input",
			page: otherPage,
			in:   "",
			want: "",
		},
	}

	p := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Process(tt.in, tt.page)
			assert.Equal(t, tt.want, res.Markdown)
			assert.Zero(t, res.Failures)
		})
	}
}

func TestProcess_FootnoteEntries(t *testing.T) {
	res := New().Process("A[1](https://a.example/1) B[*](https://a.example/2)", otherPage)

	assert.Equal(t, []footnote.Entry{
		{ID: "1", URL: "https://a.example/1"},
		{ID: "fn1", URL: "https://a.example/2"},
	}, res.Footnotes)
}

func TestProcess_ScriptDestinationLeftUnchanged(t *testing.T) {
	in := "x [1](javascript:void(0))"
	res := New().Process(in, otherPage)

	assert.Equal(t, in, res.Markdown)
	assert.Equal(t, 1, res.Failures)
	assert.Empty(t, res.Footnotes)
}

func TestProcess_PanicContained(t *testing.T) {
	classify := func(text string) citation.Marker {
		if text == "boom" {
			panic("classifier exploded")
		}
		return citation.Classify(text)
	}

	res := New(WithClassifier(classify)).Process(
		"[boom](https://a.example/1) and [2](https://a.example/2)", otherPage)

	assert.Equal(t,
		"[boom](https://a.example/1) and [^2]\n\n[^2]: https://a.example/2",
		res.Markdown)
	assert.Equal(t, 1, res.Failures)
}

func TestProcess_Deterministic(t *testing.T) {
	in := "A[*](https://a.example/1) B[9](https://a.example/2) C[9](https://a.example/3) https://x.example/"
	p := New()

	first := p.Process(in, otherPage)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, p.Process(in, otherPage))
	}
}

func TestProcess_StateNotSharedBetweenCalls(t *testing.T) {
	p := New()
	p.Process("[*](https://a.example/1) [9](https://a.example/9)", otherPage)

	res := p.Process("[*](https://b.example/1) [9](https://b.example/9)", otherPage)
	assert.Equal(t,
		"[^fn1] [^9]\n\n[^fn1]: https://b.example/1\n[^9]: https://b.example/9",
		res.Markdown)
}

func TestProcess_Idempotent(t *testing.T) {
	inputs := []string{
		"See [9](https://a.example/?utm_source=x) and [9](https://a.example/)",
		"Note [*](https://b.example/p) and [†](https://b.example/q)",
		"Visit https://x.example/page for more",
		"Go is fast[citation needed](https://c.example/cn).",
	}

	p := New()
	for _, in := range inputs {
		once := p.Process(in, otherPage).Markdown
		twice := p.Process(once, otherPage)
		assert.Equal(t, once, twice.Markdown, "input %q", in)
		assert.Empty(t, twice.Footnotes)
	}
}

func TestTidy(t *testing.T) {
	assert.Equal(t, "a\n\nb\n\nc", Tidy("  a\n\n\nb\n\n\n\n\nc\n"))
	assert.Equal(t, "a\nb", Tidy("a\nb"))
}

func TestGuard(t *testing.T) {
	out, err := guard(func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	out, err = guard(func() (string, error) { panic("bad") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
	assert.Empty(t, out)
}

func TestDestinationURL(t *testing.T) {
	assert.Equal(t, "https://a.example/x", destinationURL(`https://a.example/x "Title"`))
	assert.Equal(t, "https://a.example/x y", destinationURL("<https://a.example/x y>"))
	assert.Equal(t, "/rel", destinationURL("  /rel  "))
	assert.Equal(t, "", destinationURL("   "))
}
