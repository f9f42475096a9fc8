// Package cmd — convert command.
// This is the main command that orchestrates the pipeline:
// (fetch →) extract → normalize → post-process → render → deliver.
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/copymd/core"
	"github.com/gaurav-prasanna/copymd/core/canonical"
	"github.com/gaurav-prasanna/copymd/core/extract"
	"github.com/gaurav-prasanna/copymd/core/fetch"
	"github.com/gaurav-prasanna/copymd/core/normalize"
	"github.com/gaurav-prasanna/copymd/core/pipeline"
	"github.com/gaurav-prasanna/copymd/core/postprocess"
	"github.com/gaurav-prasanna/copymd/internal/logger"
)

var flagURL string

var convertCmd = &cobra.Command{
	Use:   "convert [file|-]",
	Short: "Convert an HTML selection to Markdown",
	Long: `Convert reads an HTML selection and prints it as Markdown.

The input is an HTML fragment (a file or stdin), or a whole page: with
--selector the selection is every element matching the CSS selector, and
with --url the page is fetched first.

Examples:
  pbpaste | copymd convert --base-url https://en.wikipedia.org/wiki/Go | pbcopy
  copymd convert page.html --selector "#content p" --base-url https://example.com/a
  copymd convert --url https://example.com/post --selector article --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&flagURL, "url", "", "fetch this page instead of reading input")
	convertCmd.Flags().String("selector", "", "CSS selector for the selection (default: whole body)")
	_ = viper.BindPFlag("selector", convertCmd.Flags().Lookup("selector"))
}

func runConvert(cmd *cobra.Command, args []string) error {
	sel, err := readSelection(cmd, args)
	if err != nil {
		return noticeIfEmpty(err)
	}
	if cfg.Title != "" {
		sel.Title = cfg.Title
	}

	p := pipeline.New(normalize.New(), postprocess.New())
	clip, err := p.Copy(sel)
	if err != nil {
		return noticeIfEmpty(err)
	}

	return deliver(cmd, clip.Markdown, clip.Meta, clip.Failures)
}

// readSelection produces the selection from --url, a full document with
// --selector, or a bare fragment.
func readSelection(cmd *cobra.Command, args []string) (*core.Selection, error) {
	if flagURL != "" {
		if canonical.IsRestricted(flagURL) {
			return nil, fmt.Errorf("%w: %s", core.ErrRestrictedURL, flagURL)
		}
		result, err := fetch.New(cfg.Timeout, cfg.UserAgent).Fetch(cmd.Context(), flagURL)
		if err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		return extract.New().Extract(result.HTML, result.URL, cfg.Selector)
	}

	html, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}
	if cfg.Selector != "" {
		return extract.New().Extract(html, cfg.BaseURL, cfg.Selector)
	}
	return &core.Selection{
		HTML:    html,
		PageURL: cfg.BaseURL,
		BaseURL: cfg.BaseURL,
	}, nil
}

// noticeIfEmpty turns a missing selection into a friendly notice.
func noticeIfEmpty(err error) error {
	if errors.Is(err, core.ErrNoSelection) {
		logger.Warn("nothing to copy", "reason", err)
		return fmt.Errorf("nothing selected: select some content and try again")
	}
	return err
}
