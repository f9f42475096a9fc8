// Package pipeline wires the stages that turn a selection into a clip:
// normalize the fragment to baseline Markdown, then post-process it.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/gaurav-prasanna/copymd/core"
	"github.com/gaurav-prasanna/copymd/core/canonical"
	"github.com/gaurav-prasanna/copymd/core/footnote"
	"github.com/gaurav-prasanna/copymd/core/linkify"
	"github.com/gaurav-prasanna/copymd/core/postprocess"
	"github.com/gaurav-prasanna/copymd/internal/logger"
)

// Clip is the result of copying one selection.
type Clip struct {
	Markdown  string
	Footnotes []footnote.Entry
	Meta      core.PageMetadata
	// Failures counts spans left unchanged by the post-processor.
	Failures int
}

// Pipeline converts selections to Markdown.
type Pipeline struct {
	normalizer core.Normalizer
	processor  *postprocess.Processor
	now        func() time.Time
}

// New creates a Pipeline.
func New(normalizer core.Normalizer, processor *postprocess.Processor) *Pipeline {
	return &Pipeline{
		normalizer: normalizer,
		processor:  processor,
		now:        time.Now,
	}
}

// Copy converts sel into a Clip. A missing or blank fragment is
// core.ErrNoSelection so callers can show a notice instead of failing hard.
func (p *Pipeline) Copy(sel *core.Selection) (*Clip, error) {
	if sel == nil || strings.TrimSpace(sel.HTML) == "" {
		return nil, core.ErrNoSelection
	}

	baseURL := sel.BaseURL
	if baseURL == "" {
		baseURL = sel.PageURL
	}

	baseline, err := p.normalizer.Normalize(sel.HTML, baseURL)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	logger.Debug("baseline markdown", "bytes", len(baseline))

	result := p.processor.Process(baseline, linkify.Page{URL: baseURL, Title: sel.Title})
	if result.Failures > 0 {
		logger.Warn("some spans were copied unchanged", "count", result.Failures)
	}

	return &Clip{
		Markdown:  result.Markdown,
		Footnotes: result.Footnotes,
		Meta:      p.metadata(sel, len(result.Footnotes)),
		Failures:  result.Failures,
	}, nil
}

// Process runs only the post-processor over baseline Markdown.
func (p *Pipeline) Process(markdown string, page linkify.Page) postprocess.Result {
	return p.processor.Process(markdown, page)
}

func (p *Pipeline) metadata(sel *core.Selection, footnotes int) core.PageMetadata {
	return core.PageMetadata{
		URL:       sel.PageURL,
		Domain:    canonical.Hostname(sel.PageURL),
		Title:     sel.Title,
		CopiedAt:  p.now().UTC().Format(time.RFC3339),
		Footnotes: footnotes,
	}
}
