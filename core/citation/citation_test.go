package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9", "9"},
		{"  9  ", "9"},
		{"[9]", "9"},
		{`\[9\]`, "9"},
		{"[[9]]", "9"},
		{"  [ 12a ] ", "12a"},
		{"[citation needed]", "citation needed"},
		{"Read more", "Read more"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalText(tt.in))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		text      string
		wantKind  Kind
		wantLabel string
	}{
		// numeric
		{"9", Numeric, "9"},
		{"123", Numeric, "123"},
		{"12a", Numeric, "12a"},
		{"12A", Numeric, "12a"},
		{"[9]", Numeric, "9"},
		{`\[9\]`, Numeric, "9"},
		{"[[9]]", Numeric, "9"},
		{"1234", None, ""},
		{"12ab", None, ""},
		// note / ref
		{"note 3", NoteOrRef, "note3"},
		{"Note3", NoteOrRef, "note3"},
		{"REF 7", NoteOrRef, "ref7"},
		{"[ref 12]", NoteOrRef, "ref12"},
		{"note  3", None, ""},
		{"note 1234", None, ""},
		{"notes 3", None, ""},
		// citation needed
		{"citation needed", CitationNeeded, "citationneeded"},
		{"Citation Needed", CitationNeeded, "citationneeded"},
		{"[citation needed]", CitationNeeded, "citationneeded"},
		// symbols
		{"*", Symbol, "*"},
		{`\*`, Symbol, "*"},
		{"†", Symbol, "†"},
		{"‡", Symbol, "‡"},
		{"§", Symbol, "§"},
		{"**", None, ""},
		{"†‡", None, ""},
		// none
		{"Read more", None, ""},
		{"2019", None, ""},
		{"", None, ""},
		{"[]", None, ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			m := Classify(tt.text)
			assert.Equal(t, tt.wantKind, m.Kind, "kind of %q", tt.text)
			assert.Equal(t, tt.wantLabel, m.Label, "label of %q", tt.text)
			assert.Equal(t, tt.wantKind != None, m.IsCitation())
		})
	}
}

func TestNormalize(t *testing.T) {
	label, ok := Normalize("ref 7")
	assert.True(t, ok)
	assert.Equal(t, "ref7", label)

	label, ok = Normalize("§")
	assert.True(t, ok)
	assert.Equal(t, "§", label)

	label, ok = Normalize("Read more")
	assert.False(t, ok)
	assert.Empty(t, label)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "numeric", Numeric.String())
	assert.Equal(t, "note-or-ref", NoteOrRef.String())
	assert.Equal(t, "citation-needed", CitationNeeded.String())
	assert.Equal(t, "symbol", Symbol.String())
	assert.Equal(t, "none", None.String())
}
