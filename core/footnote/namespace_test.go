package footnote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/gaurav-prasanna/copymd/core/citation"
)

type NamespaceSuite struct {
	suite.Suite
	ns *Namespace
}

func (s *NamespaceSuite) SetupTest() {
	s.ns = NewNamespace()
}

func numeric(label string) citation.Marker {
	return citation.Marker{Kind: citation.Numeric, Label: label}
}

func symbol(label string) citation.Marker {
	return citation.Marker{Kind: citation.Symbol, Label: label}
}

func (s *NamespaceSuite) TestSameURLReusesID() {
	first := s.ns.Allocate("https://a.example/", numeric("9"))
	second := s.ns.Allocate("https://a.example/", numeric("3"))
	third := s.ns.Allocate("https://a.example/", symbol("*"))

	s.Equal("9", first)
	s.Equal("9", second)
	s.Equal("9", third)
	s.Equal(1, s.ns.Len())
}

func (s *NamespaceSuite) TestLabelCollisionsGetSuffixes() {
	s.Equal("9", s.ns.Allocate("https://a.example/1", numeric("9")))
	s.Equal("9-2", s.ns.Allocate("https://a.example/2", numeric("9")))
	s.Equal("9-3", s.ns.Allocate("https://a.example/3", numeric("9")))
	s.Equal("9-2", s.ns.Allocate("https://a.example/2", numeric("9")))
	s.Equal(3, s.ns.Len())
}

func (s *NamespaceSuite) TestSymbolsGetGeneratedIDs() {
	s.Equal("fn1", s.ns.Allocate("https://b.example/p", symbol("*")))
	s.Equal("fn2", s.ns.Allocate("https://b.example/q", symbol("†")))
	s.Equal("fn1", s.ns.Allocate("https://b.example/p", symbol("‡")))
}

func (s *NamespaceSuite) TestUnlabeledMarkersGetGeneratedIDs() {
	s.Equal("fn1", s.ns.Allocate("https://c.example/", citation.Marker{Kind: citation.Numeric}))
}

func (s *NamespaceSuite) TestGeneratedAndLabeledCountersAreIndependent() {
	s.Equal("fn1", s.ns.Allocate("https://a.example/1", symbol("*")))
	s.Equal("1", s.ns.Allocate("https://a.example/2", numeric("1")))
	s.Equal("fn2", s.ns.Allocate("https://a.example/3", symbol("*")))
	s.Equal("1-2", s.ns.Allocate("https://a.example/4", numeric("1")))
}

func (s *NamespaceSuite) TestNoteAndCitationNeededLabels() {
	s.Equal("note3", s.ns.Allocate("https://a.example/n",
		citation.Marker{Kind: citation.NoteOrRef, Label: "note3"}))
	s.Equal("citationneeded", s.ns.Allocate("https://a.example/cn",
		citation.Marker{Kind: citation.CitationNeeded, Label: "citationneeded"}))
}

func (s *NamespaceSuite) TestLookup() {
	_, ok := s.ns.Lookup("https://a.example/")
	s.False(ok)

	s.ns.Allocate("https://a.example/", numeric("4"))
	id, ok := s.ns.Lookup("https://a.example/")
	s.True(ok)
	s.Equal("4", id)
}

func (s *NamespaceSuite) TestDefinitionsInAllocationOrder() {
	s.ns.Allocate("https://a.example/2", numeric("2"))
	s.ns.Allocate("https://a.example/1", numeric("1"))
	s.ns.Allocate("https://a.example/s", symbol("*"))

	s.Equal("[^2]: https://a.example/2\n[^1]: https://a.example/1\n[^fn1]: https://a.example/s",
		s.ns.Definitions())
}

func (s *NamespaceSuite) TestEntriesIsACopy() {
	s.ns.Allocate("https://a.example/", numeric("1"))

	entries := s.ns.Entries()
	entries[0].ID = "changed"

	s.Equal("1", s.ns.Entries()[0].ID)
}

func (s *NamespaceSuite) TestEmptyNamespace() {
	s.Equal(0, s.ns.Len())
	s.Empty(s.ns.Definitions())
	s.Empty(s.ns.Entries())
}

func TestNamespaceSuite(t *testing.T) {
	suite.Run(t, new(NamespaceSuite))
}

func TestNamespacesAreIndependent(t *testing.T) {
	a := NewNamespace()
	b := NewNamespace()

	assert.Equal(t, "fn1", a.Allocate("https://a.example/", symbol("*")))
	assert.Equal(t, "fn1", b.Allocate("https://b.example/", symbol("*")))
	assert.Equal(t, "9", a.Allocate("https://a.example/9", numeric("9")))
	assert.Equal(t, "9", b.Allocate("https://b.example/9", numeric("9")))
}
