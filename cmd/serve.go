// Package cmd — serve command.
// Serves the card page over HTTP, reloading the source on every request.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/recipecards/core/logging"
	"github.com/gaurav-prasanna/recipecards/core/metrics"
	"github.com/gaurav-prasanna/recipecards/core/server"
)

const shutdownTimeout = 5 * time.Second

var (
	flagAddr        string
	flagServeTheme  string
	flagServeHTML   bool
	flagCORSOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve [source]",
	Short: "Serve the recipe cards over HTTP",
	Long: `Serve starts an HTTP server with the card page at /, JSON at /recipes and
/recipes/{index}, canonical Markdown at /recipes.md, /healthz and Prometheus
metrics at /metrics.

Examples:
  recipecards serve
  recipecards serve https://example.com/recipes.md --addr :9000 --theme purple`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default: config or :8080)")
	serveCmd.Flags().StringVar(&flagServeTheme, "theme", "", "Initial theme: green, blue, purple, orange")
	serveCmd.Flags().BoolVar(&flagServeHTML, "from-html", false, "Treat the source as HTML and convert it to recipe Markdown first")
	serveCmd.Flags().StringSliceVar(&flagCORSOrigins, "cors-origin", nil, "Allowed CORS origins (repeatable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	source := resolveSource(args)
	t, err := resolveTheme(flagServeTheme)
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if flagAddr != "" {
		addr = flagAddr
	}
	origins := cfg.Server.CORSOrigins
	if len(flagCORSOrigins) > 0 {
		origins = flagCORSOrigins
	}

	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewRecorder(reg)

	srv := server.New(newPipeline(flagServeHTML, rec), server.Config{
		Source:      source,
		Theme:       t,
		CORSOrigins: origins,
		Metrics:     rec,
		Gatherer:    reg,
		Logger:      logger,
	})

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String(logging.KeyAddr, addr), logging.Source(source))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
