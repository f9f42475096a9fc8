// Package cmd implements the CLI commands for copymd using Cobra.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/copymd/core"
	"github.com/gaurav-prasanna/copymd/core/output"
	"github.com/gaurav-prasanna/copymd/core/render"
	"github.com/gaurav-prasanna/copymd/internal/config"
	"github.com/gaurav-prasanna/copymd/internal/logger"
)

// cfg is loaded before any command runs.
var cfg *config.Config

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "copymd",
	Short: "copymd — copy a page selection as clean Markdown",
	Long: `copymd converts a selection of a web page into portable Markdown.

Links are made absolute and stripped of tracking parameters, citation
markers such as [1], [note 3] or [citation needed] become footnotes, and
bare URLs become labeled links.

Usage:
  copymd convert [file|-] [flags]
  copymd process [file|-] [flags]`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", "", "config file (default $HOME/.copymd.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "suppress status output")
	flags.Bool("log-json", false, "log as JSON")

	flags.String("format", "markdown", "output format: markdown, json, yaml or pdf")
	flags.String("base-url", "", "URL of the page the selection came from")
	flags.String("title", "", "title of the page (labels same-page URLs)")
	flags.String("output_dir", "", "write to this directory instead of stdout")

	bind := map[string]string{
		"debug":      "debug",
		"quiet":      "quiet",
		"log_json":   "log-json",
		"format":     "format",
		"base_url":   "base-url",
		"title":      "title",
		"output_dir": "output_dir",
	}
	for key, flag := range bind {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
	config.SetDefaults(viper.GetViper())
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := config.Init(viper.GetViper(), flagConfig); err != nil {
		return err
	}
	loaded, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	cfg = loaded

	logger.Init(logger.Options{
		Debug:  cfg.Debug,
		Quiet:  cfg.Quiet,
		JSON:   cfg.LogJSON,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

// selectRenderer creates the Renderer for a format name.
func selectRenderer(format string) (core.Renderer, error) {
	switch format {
	case "markdown", "":
		return render.NewMarkdownRenderer(), nil
	case "json":
		return render.NewJSONRenderer(), nil
	case "yaml":
		return render.NewYAMLRenderer(), nil
	case "pdf":
		return render.NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// selectSink writes to stdout unless an output directory is configured.
func selectSink(cmd *cobra.Command, outputDir string) (core.Sink, error) {
	if outputDir == "" {
		return output.NewStdout(cmd.OutOrStdout()), nil
	}
	w, err := output.New(outputDir)
	if err != nil {
		return nil, fmt.Errorf("initializing output writer: %w", err)
	}
	return w, nil
}

// readInput reads the file named by args[0], or stdin for "-" or no argument.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}

// deliver renders markdown, hands it to the sink and prints a status line.
func deliver(cmd *cobra.Command, markdown string, meta core.PageMetadata, failures int) error {
	renderer, err := selectRenderer(cfg.Format)
	if err != nil {
		return err
	}
	data, err := renderer.Render(markdown, meta)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	sink, err := selectSink(cmd, cfg.OutputDir)
	if err != nil {
		return err
	}
	where, err := sink.Deliver(meta.URL, data, renderer.Extension())
	if err != nil {
		return err
	}

	logger.Debug("delivered clip", "sink", where, "bytes", len(data), "failures", failures)
	if !cfg.Quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Copied as Markdown (%s, %d footnotes) → %s\n",
			humanize.Bytes(uint64(len(data))), meta.Footnotes, where)
	}
	return nil
}
