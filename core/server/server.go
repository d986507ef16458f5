// Package server serves the recipe card page and its JSON/Markdown views.
// The source is loaded again on every request, so edits show up on reload.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/gaurav-prasanna/recipecards/core"
	"github.com/gaurav-prasanna/recipecards/core/fetch"
	"github.com/gaurav-prasanna/recipecards/core/logging"
	"github.com/gaurav-prasanna/recipecards/core/metrics"
	"github.com/gaurav-prasanna/recipecards/core/pipeline"
	"github.com/gaurav-prasanna/recipecards/core/render"
	"github.com/gaurav-prasanna/recipecards/core/theme"
)

// Loader loads a recipe source; *pipeline.Pipeline implements it.
type Loader interface {
	Load(ctx context.Context, source string) (*pipeline.Result, error)
}

// Config configures a Server.
type Config struct {
	Source      string
	Theme       theme.Theme
	CORSOrigins []string
	Metrics     *metrics.Recorder
	Gatherer    prom.Gatherer // nil disables /metrics
	Logger      *slog.Logger
}

// Server holds the HTTP handlers.
type Server struct {
	loader   Loader
	cfg      Config
	html     *render.HTMLRenderer
	json     *render.JSONRenderer
	markdown *render.MarkdownRenderer
	logger   *slog.Logger
}

// New creates a Server.
func New(loader Loader, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		loader:   loader,
		cfg:      cfg,
		html:     render.NewHTMLRenderer(cfg.Theme),
		json:     render.NewJSONRenderer(),
		markdown: render.NewMarkdownRenderer(),
		logger:   logger,
	}
}

// Handler returns the router wrapped in CORS and request-ID middleware.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestID)

	r.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	r.HandleFunc("/recipes", s.handleRecipes).Methods(http.MethodGet)
	r.HandleFunc("/recipes.md", s.handleMarkdown).Methods(http.MethodGet)
	r.HandleFunc("/recipes/{index:[0-9]+}", s.handleRecipe).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	if s.cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
	})
	return c.Handler(r)
}

type ctxKey struct{}

// RequestID returns the request ID stored by the middleware, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.logger.Debug("request",
			slog.String(logging.KeyRequestID, id),
			slog.String(logging.KeyMethod, r.Method),
			slog.String(logging.KeyRoute, route),
			slog.Int64(logging.KeyDuration, time.Since(start).Milliseconds()),
		)
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	res, err := s.loader.Load(r.Context(), s.cfg.Source)
	if err != nil {
		s.writePageError(w, r, err)
		return
	}
	s.writeRendered(w, r, s.html, res, "text/html; charset=utf-8")
}

func (s *Server) handleRecipes(w http.ResponseWriter, r *http.Request) {
	res, err := s.loader.Load(r.Context(), s.cfg.Source)
	if err != nil && (res == nil || !errors.Is(err, core.ErrNoRecipes)) {
		s.writeJSONError(w, r, err)
		return
	}
	s.writeRendered(w, r, s.json, res, "application/json")
}

func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	res, err := s.loader.Load(r.Context(), s.cfg.Source)
	if err != nil && (res == nil || !errors.Is(err, core.ErrNoRecipes)) {
		s.writeJSONError(w, r, err)
		return
	}
	s.writeRendered(w, r, s.markdown, res, "text/markdown; charset=utf-8")
}

func (s *Server) handleRecipe(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		http.Error(w, "invalid recipe index", http.StatusBadRequest)
		return
	}

	res, err := s.loader.Load(r.Context(), s.cfg.Source)
	if err != nil && (res == nil || !errors.Is(err, core.ErrNoRecipes)) {
		s.writeJSONError(w, r, err)
		return
	}
	if index < 0 || index >= len(res.Recipes) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "No matching recipe found"})
		return
	}
	writeJSON(w, http.StatusOK, res.Recipes[index])
}

func (s *Server) writeRendered(w http.ResponseWriter, r *http.Request, renderer core.Renderer, res *pipeline.Result, contentType string) {
	start := time.Now()
	data, err := renderer.Render(res.Recipes, res.Document)
	s.cfg.Metrics.ObserveRender(renderer.Extension(), time.Since(start))
	if err != nil {
		s.logger.Error("render failed", slog.String(logging.KeyRequestID, RequestID(r.Context())), logging.Error(err))
		http.Error(w, "failed to render recipes", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}

func (s *Server) writePageError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.logger.Warn("serving error page",
		slog.String(logging.KeyRequestID, RequestID(r.Context())),
		slog.Int(logging.KeyStatus, status),
		logging.Error(err),
	)

	page, rerr := s.html.RenderError(pipeline.UserMessage(err, s.cfg.Source))
	if rerr != nil {
		http.Error(w, rerr.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(page)
}

func (s *Server) writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.logger.Warn("load failed",
		slog.String(logging.KeyRequestID, RequestID(r.Context())),
		slog.Int(logging.KeyStatus, status),
		logging.Error(err),
	)
	writeJSON(w, status, map[string]string{"error": pipeline.UserMessage(err, s.cfg.Source)})
}

// statusFor maps load errors to HTTP statuses.
func statusFor(err error) int {
	var statusErr *fetch.StatusError
	switch {
	case errors.Is(err, core.ErrNoRecipes), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.As(err, &statusErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
