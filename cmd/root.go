// Package cmd implements the CLI commands for recipecards using Cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/recipecards/core/config"
	"github.com/gaurav-prasanna/recipecards/core/extract"
	"github.com/gaurav-prasanna/recipecards/core/fetch"
	"github.com/gaurav-prasanna/recipecards/core/logging"
	"github.com/gaurav-prasanna/recipecards/core/metrics"
	"github.com/gaurav-prasanna/recipecards/core/normalize"
	"github.com/gaurav-prasanna/recipecards/core/parse"
	"github.com/gaurav-prasanna/recipecards/core/pipeline"
	"github.com/gaurav-prasanna/recipecards/core/theme"
)

// Persistent flag variables.
var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
)

// Loaded in PersistentPreRunE, shared by subcommands.
var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "recipecards",
	Short: "recipecards — turn a recipe Markdown file into themed cards",
	Long: `recipecards loads a recipe document written in a small Markdown notation
(blocks separated by ---, "# " titles, "Дата:" lines, ingredient bullets and
numbered steps) and renders it as HTML cards, JSON, Markdown or PDF.

Usage:
  recipecards render [source] [flags]
  recipecards serve [source] [flags]`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: text or json")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig merges file, environment and persistent flags, then sets up logging.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagLogLevel != "" {
		loaded.Log.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		loaded.Log.Format = flagLogFormat
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded
	logger = logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	slog.SetDefault(logger)
	return nil
}

// resolveSource picks the positional source, falling back to the config.
func resolveSource(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return cfg.Source
}

// resolveTheme applies a --theme override on top of the config.
func resolveTheme(flagValue string) (theme.Theme, error) {
	key := cfg.Theme
	if flagValue != "" {
		key = flagValue
	}
	t, ok := theme.Lookup(key)
	if !ok {
		return theme.Theme{}, fmt.Errorf("unknown theme %q (available: green, blue, purple, orange)", key)
	}
	return t, nil
}

// newPipeline builds the load pipeline from the current config.
func newPipeline(fromHTML bool, rec *metrics.Recorder) *pipeline.Pipeline {
	fetcher := fetch.New(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
	)
	return pipeline.New(fetcher, parse.New(), pipeline.Options{
		FromHTML:   fromHTML || cfg.FromHTML,
		Extractor:  extract.New(),
		Normalizer: normalize.New(),
		Metrics:    rec,
		Logger:     logger,
	})
}
