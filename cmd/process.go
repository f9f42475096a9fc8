// Package cmd — process command.
// Runs only the post-processor over Markdown produced elsewhere.
package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/copymd/core"
	"github.com/gaurav-prasanna/copymd/core/canonical"
	"github.com/gaurav-prasanna/copymd/core/linkify"
	"github.com/gaurav-prasanna/copymd/core/normalize"
	"github.com/gaurav-prasanna/copymd/core/pipeline"
	"github.com/gaurav-prasanna/copymd/core/postprocess"
)

var processCmd = &cobra.Command{
	Use:   "process [file|-]",
	Short: "Rewrite citations and bare URLs in Markdown",
	Long: `Process reads Markdown and applies the copymd rewrites: citation links
become footnotes, tracking parameters are stripped from their URLs, and bare
URLs become labeled links.

Examples:
  copymd process notes.md --base-url https://example.com/article
  cat clip.md | copymd process --title "My Article" --base-url https://example.com/a`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	markdown, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	page := linkify.Page{URL: cfg.BaseURL, Title: cfg.Title}
	result := pipeline.New(normalize.New(), postprocess.New()).Process(markdown, page)

	meta := core.PageMetadata{
		URL:       cfg.BaseURL,
		Domain:    canonical.Hostname(cfg.BaseURL),
		Title:     cfg.Title,
		CopiedAt:  time.Now().UTC().Format(time.RFC3339),
		Footnotes: len(result.Footnotes),
	}
	return deliver(cmd, result.Markdown, meta, result.Failures)
}
