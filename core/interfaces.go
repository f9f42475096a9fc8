// Package core defines the pipeline interfaces for copymd.
// Each stage of the pipeline is a clean, testable interface:
// fetch → extract → normalize → post-process → render → deliver.
package core

import "context"

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// Selection is the fragment the user selected, plus the page context the
// post-processor needs: the URL relative links resolve against and the
// title used to label same-page URLs.
type Selection struct {
	HTML    string
	PageURL string
	BaseURL string // <base href> if the document declares one, else PageURL
	Title   string
}

// PageMetadata describes the page a clip was taken from.
type PageMetadata struct {
	URL       string `json:"url" yaml:"url"`
	Domain    string `json:"domain" yaml:"domain"`
	Title     string `json:"title" yaml:"title"`
	CopiedAt  string `json:"copied_at" yaml:"copied_at"` // ISO8601
	Footnotes int    `json:"footnotes" yaml:"footnotes"`
}

// Heading represents a single heading found in the content.
type Heading struct {
	Level int    `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
}

// Link represents a hyperlink found in the content.
type Link struct {
	Text string `json:"text" yaml:"text"`
	Href string `json:"href" yaml:"href"`
}

// Footnote is a footnote definition found in the content.
type Footnote struct {
	ID  string `json:"id" yaml:"id"`
	URL string `json:"url" yaml:"url"`
}

// ClipDocument is the structured (JSON/YAML) form of a clip.
type ClipDocument struct {
	Metadata  PageMetadata `json:"metadata" yaml:"metadata"`
	Markdown  string       `json:"markdown" yaml:"markdown"`
	Text      string       `json:"text" yaml:"text"`
	Headings  []Heading    `json:"headings" yaml:"headings"`
	Links     []Link       `json:"links" yaml:"links"`
	Footnotes []Footnote   `json:"footnotes" yaml:"footnotes"`
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Extractor pulls the selected fragment out of a full HTML document.
type Extractor interface {
	Extract(html, pageURL, selector string) (*Selection, error)
}

// Normalizer converts an HTML fragment into baseline Markdown.
type Normalizer interface {
	Normalize(html string, baseURL string) (string, error)
}

// Renderer converts Markdown (and metadata) into a final output format.
type Renderer interface {
	Render(markdown string, meta PageMetadata) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}

// Sink delivers rendered output: stdout, a file, a clipboard bridge.
// It returns a human-readable description of where the data went.
type Sink interface {
	Deliver(pageURL string, data []byte, ext string) (string, error)
}
