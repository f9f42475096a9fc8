// Package citation classifies link anchor text.
// Anchor text such as "9", "[12a]", "note 3", "citation needed" or "†"
// marks a citation rather than a normal hyperlink; the classifier derives
// the label the footnote allocator keys on.
package citation

import (
	"regexp"
	"strings"
)

// Kind is the variant of a Marker.
type Kind int

const (
	None Kind = iota
	Numeric
	NoteOrRef
	CitationNeeded
	Symbol
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case NoteOrRef:
		return "note-or-ref"
	case CitationNeeded:
		return "citation-needed"
	case Symbol:
		return "symbol"
	default:
		return "none"
	}
}

// Marker is the classification of one anchor text.
// Label is the normalized footnote label; it is empty for None.
type Marker struct {
	Kind  Kind
	Label string
}

// IsCitation reports whether the anchor denotes a citation.
func (m Marker) IsCitation() bool {
	return m.Kind != None
}

// Patterns are tried in this order against the canonical text.
var (
	numericRe        = regexp.MustCompile(`^\d{1,3}[A-Za-z]?$`)
	noteOrRefRe      = regexp.MustCompile(`(?i)^(note|ref)\s?(\d{1,3})$`)
	citationNeededRe = regexp.MustCompile(`(?i)^citation needed$`)
)

// symbols are single-character markers. "\*" is how converters escape
// a literal asterisk in link text.
var symbols = map[string]string{
	"*":  "*",
	`\*`: "*",
	"†":  "†",
	"‡":  "‡",
	"§":  "§",
}

// CanonicalText trims text, unescapes \[ and \], strips any leading '['
// and trailing ']' and trims again. "[\[9\]]" becomes "9".
func CanonicalText(text string) string {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, `\[`, "[")
	s = strings.ReplaceAll(s, `\]`, "]")
	s = strings.TrimLeft(s, "[")
	s = strings.TrimRight(s, "]")
	return strings.TrimSpace(s)
}

// Classify returns the Marker for a link's anchor text.
func Classify(text string) Marker {
	s := CanonicalText(text)
	if s == "" {
		return Marker{}
	}

	if numericRe.MatchString(s) {
		return Marker{Kind: Numeric, Label: strings.ToLower(s)}
	}
	if m := noteOrRefRe.FindStringSubmatch(s); m != nil {
		return Marker{Kind: NoteOrRef, Label: strings.ToLower(m[1]) + m[2]}
	}
	if citationNeededRe.MatchString(s) {
		return Marker{Kind: CitationNeeded, Label: "citationneeded"}
	}
	if sym, ok := symbols[s]; ok {
		return Marker{Kind: Symbol, Label: sym}
	}
	return Marker{}
}

// Normalize returns the normalized label of text and whether text is a
// citation marker at all. Symbols normalize to themselves; the allocator
// never uses them as footnote IDs.
func Normalize(text string) (string, bool) {
	m := Classify(text)
	return m.Label, m.IsCitation()
}
