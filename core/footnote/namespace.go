// Package footnote assigns footnote identifiers to citation links.
// A Namespace lives for exactly one post-processing pass; nothing in this
// package is shared between passes.
package footnote

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/copymd/core/citation"
	"github.com/gaurav-prasanna/copymd/internal/logger"
)

// autoPrefix prefixes generated IDs: fn1, fn2, ...
const autoPrefix = "fn"

// Entry is one footnote definition.
type Entry struct {
	ID  string `json:"id" yaml:"id"`
	URL string `json:"url" yaml:"url"`
}

// labelRecord tracks how many distinct URLs claimed a label.
type labelRecord struct {
	count int
	urls  []string
}

// Namespace holds the footnote ID state of one pass.
type Namespace struct {
	byURL   map[string]string
	labels  map[string]*labelRecord
	entries []Entry
	autoSeq int
}

// NewNamespace creates an empty Namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		byURL:  make(map[string]string),
		labels: make(map[string]*labelRecord),
	}
}

// Allocate returns the footnote ID for a citation link pointing at
// canonicalURL. Rules, first match wins:
//  1. a URL seen before gets its earlier ID, whatever the anchor text;
//  2. symbol markers get the next generated ID;
//  3. labeled markers get the bare label for the first URL and
//     label-2, label-3, ... for each further distinct URL;
//  4. anything else gets the next generated ID.
func (ns *Namespace) Allocate(canonicalURL string, m citation.Marker) string {
	if id, ok := ns.byURL[canonicalURL]; ok {
		return id
	}

	var id string
	switch {
	case m.Kind == citation.Symbol:
		id = ns.nextAuto()
	case m.Label != "":
		id = ns.claimLabel(m.Label, canonicalURL)
	default:
		id = ns.nextAuto()
	}

	ns.byURL[canonicalURL] = id
	ns.entries = append(ns.entries, Entry{ID: id, URL: canonicalURL})
	logger.Debug("allocated footnote", "id", id, "url", canonicalURL, "marker", m.Kind.String())
	return id
}

func (ns *Namespace) nextAuto() string {
	ns.autoSeq++
	return fmt.Sprintf("%s%d", autoPrefix, ns.autoSeq)
}

func (ns *Namespace) claimLabel(label, url string) string {
	rec, ok := ns.labels[label]
	if !ok {
		rec = &labelRecord{}
		ns.labels[label] = rec
	}
	rec.count++
	rec.urls = append(rec.urls, url)

	if rec.count == 1 {
		return label
	}
	return fmt.Sprintf("%s-%d", label, rec.count)
}

// Lookup returns the ID already assigned to canonicalURL.
func (ns *Namespace) Lookup(canonicalURL string) (string, bool) {
	id, ok := ns.byURL[canonicalURL]
	return id, ok
}

// Len returns the number of footnotes allocated so far.
func (ns *Namespace) Len() int {
	return len(ns.entries)
}

// Entries returns the footnotes in order of first allocation.
func (ns *Namespace) Entries() []Entry {
	out := make([]Entry, len(ns.entries))
	copy(out, ns.entries)
	return out
}

// Definitions renders the footnote block, one "[^id]: url" line per entry.
func (ns *Namespace) Definitions() string {
	lines := make([]string, len(ns.entries))
	for i, e := range ns.entries {
		lines[i] = fmt.Sprintf("[^%s]: %s", e.ID, e.URL)
	}
	return strings.Join(lines, "\n")
}
