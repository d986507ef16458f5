// Package cmd — render command.
// This is the main command that orchestrates the pipeline:
// fetch → (html import) → parse → render → write.
//
// It handles flag validation, renderer selection and --watch mode.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/recipecards/core"
	"github.com/gaurav-prasanna/recipecards/core/fetch"
	"github.com/gaurav-prasanna/recipecards/core/logging"
	"github.com/gaurav-prasanna/recipecards/core/output"
	"github.com/gaurav-prasanna/recipecards/core/pipeline"
	"github.com/gaurav-prasanna/recipecards/core/render"
	"github.com/gaurav-prasanna/recipecards/core/watch"
)

// Flag variables.
var (
	flagHTML      bool
	flagJSON      bool
	flagMarkdown  bool
	flagPDF       bool
	flagOutputDir string
	flagTheme     string
	flagFromHTML  bool
	flagFont      string
	flagWatch     bool
)

var renderCmd = &cobra.Command{
	Use:   "render [source]",
	Short: "Render a recipe document to HTML cards, JSON, Markdown or PDF",
	Long: `Render loads a recipe document (local path or http(s) URL, default recipes.md),
parses it and writes the chosen output format next to the current directory
or into --output_dir ("-" writes to stdout).

Examples:
  recipecards render
  recipecards render recipes.md --theme blue --output_dir ./site
  recipecards render https://example.com/recipes.md --json --output_dir -
  recipecards render recipes.md --pdf --font ./DejaVuSans.ttf
  recipecards render recipes.md --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	// Output format flags (mutually exclusive, HTML by default).
	renderCmd.Flags().BoolVar(&flagHTML, "html", false, "Output HTML cards (default)")
	renderCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")
	renderCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output canonical recipe Markdown")
	renderCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF")

	renderCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", `Output directory (default: config or current directory, "-" for stdout)`)
	renderCmd.Flags().StringVar(&flagTheme, "theme", "", "Initial theme: green, blue, purple, orange")
	renderCmd.Flags().BoolVar(&flagFromHTML, "from-html", false, "Treat the source as HTML and convert it to recipe Markdown first")
	renderCmd.Flags().StringVar(&flagFont, "font", "", "UTF-8 TrueType font for PDF output (needed for Cyrillic)")
	renderCmd.Flags().BoolVar(&flagWatch, "watch", false, "Re-render whenever the local source file changes")
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := validateFlags(); err != nil {
		return err
	}

	source := resolveSource(args)
	if flagWatch && fetch.IsRemote(source) {
		return fmt.Errorf("--watch requires a local source, got %s", source)
	}

	renderer, err := selectRenderer()
	if err != nil {
		return err
	}

	dir := cfg.OutputDir
	if flagOutputDir != "" {
		dir = flagOutputDir
	}
	writer, err := output.New(dir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	p := newPipeline(flagFromHTML, nil)

	if !flagWatch {
		return renderOnce(cmd.Context(), source, p, renderer, writer)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := renderOnce(ctx, source, p, renderer, writer); err != nil {
		logger.Warn("render failed", logging.Source(source), logging.Error(err))
	}
	w, err := watch.New(fetch.LocalPath(source), 0, logger)
	if err != nil {
		return err
	}
	return w.Run(ctx, func() {
		if err := renderOnce(ctx, source, p, renderer, writer); err != nil {
			logger.Warn("render failed", logging.Source(source), logging.Error(err))
		}
	})
}

// renderOnce runs the pipeline for source and writes the result. HTML output
// still gets a page carrying the error message when loading fails.
func renderOnce(
	ctx context.Context,
	source string,
	p *pipeline.Pipeline,
	renderer core.Renderer,
	writer *output.Writer,
) error {
	start := time.Now()

	res, loadErr := p.Load(ctx, source)
	if loadErr != nil {
		htmlRenderer, ok := renderer.(*render.HTMLRenderer)
		if !ok {
			return loadErr
		}
		page, err := htmlRenderer.RenderError(pipeline.UserMessage(loadErr, source))
		if err != nil {
			return err
		}
		if _, err := writer.Write(source, page, renderer.Extension()); err != nil {
			return err
		}
		return loadErr
	}

	data, err := renderer.Render(res.Recipes, res.Document)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	path, err := writer.Write(source, data, renderer.Extension())
	if err != nil {
		return err
	}

	logger.Debug("rendered",
		logging.Source(source),
		logging.Count(len(res.Recipes)),
		slog.String(logging.KeyFormat, renderer.Extension()),
		slog.Int64(logging.KeyDuration, time.Since(start).Milliseconds()),
	)
	if path != output.Stdout {
		fmt.Fprintf(os.Stdout, "✓ Written: %s (%d recipes)\n", path, len(res.Recipes))
	}
	return nil
}

// validateFlags checks that at most one output format is chosen and that
// format-specific flags match the format.
func validateFlags() error {
	formatCount := 0
	for _, set := range []bool{flagHTML, flagJSON, flagMarkdown, flagPDF} {
		if set {
			formatCount++
		}
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}

	if flagFont != "" && !flagPDF {
		return errors.New("--font is only used with --pdf")
	}
	return nil
}

// selectRenderer creates the appropriate Renderer based on flags.
func selectRenderer() (core.Renderer, error) {
	t, err := resolveTheme(flagTheme)
	if err != nil {
		return nil, err
	}

	switch {
	case flagJSON:
		return render.NewJSONRenderer(), nil
	case flagMarkdown:
		return render.NewMarkdownRenderer(), nil
	case flagPDF:
		font := cfg.FontPath
		if flagFont != "" {
			font = flagFont
		}
		return render.NewPDFRenderer(t, font), nil
	default:
		return render.NewHTMLRenderer(t), nil
	}
}
