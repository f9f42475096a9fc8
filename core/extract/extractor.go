// Package extract implements the Extractor interface.
// It stands in for the browser's selection API: the "selection" is every
// element matching a CSS selector, or the whole body when no selector is
// given. It also reads the page context (<title>, <base href>).
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/gaurav-prasanna/copymd/core"
	"github.com/gaurav-prasanna/copymd/core/canonical"
)

// noiseSelectors are removed before extraction; they never render as text.
var noiseSelectors = []string{
	"script", "style", "noscript", "template",
}

// HTMLExtractor selects a fragment from an HTML document.
type HTMLExtractor struct{}

// New creates an HTMLExtractor.
func New() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract returns the fragment of html matched by selector together with
// the page title and base URL. An empty match is core.ErrNoSelection.
func (e *HTMLExtractor) Extract(html, pageURL, selector string) (*core.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	sel := &core.Selection{
		PageURL: pageURL,
		BaseURL: pageURL,
		Title:   strings.TrimSpace(doc.Find("head > title").First().Text()),
	}
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if resolved, err := canonical.Resolve(href, pageURL); err == nil {
			sel.BaseURL = resolved
		}
	}

	for _, s := range noiseSelectors {
		doc.Find(s).Remove()
	}

	fragment, err := selectFragment(doc, selector)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(fragment) == "" {
		return nil, fmt.Errorf("selector %q: %w", selector, core.ErrNoSelection)
	}
	sel.HTML = fragment
	return sel, nil
}

// selectFragment serializes the nodes the selection covers.
func selectFragment(doc *goquery.Document, selector string) (string, error) {
	if strings.TrimSpace(selector) == "" {
		body := doc.Find("body").First()
		if body.Length() == 0 {
			return "", nil
		}
		inner, err := body.Html()
		if err != nil {
			return "", fmt.Errorf("serializing body: %w", err)
		}
		return inner, nil
	}

	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return "", fmt.Errorf("invalid selector %q: %w", selector, err)
	}

	var b strings.Builder
	var outerErr error
	doc.FindMatcher(matcher).Each(func(_ int, s *goquery.Selection) {
		if outerErr != nil {
			return
		}
		outer, err := goquery.OuterHtml(s)
		if err != nil {
			outerErr = fmt.Errorf("serializing selection: %w", err)
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(outer)
	})
	if outerErr != nil {
		return "", outerErr
	}
	return b.String(), nil
}
