// Package fetch implements the Fetcher interface.
// Sources are either http(s) URLs, fetched with a GET request, or local
// paths (optionally file:// URLs) read from disk.
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gaurav-prasanna/recipecards/core"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "recipecards/1.0 (https://github.com/gaurav-prasanna/recipecards)"
)

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// SourceFetcher loads recipe documents from URLs or the local filesystem.
type SourceFetcher struct {
	client    *http.Client
	userAgent string
}

// Option configures a SourceFetcher.
type Option func(*SourceFetcher)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *SourceFetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *SourceFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *SourceFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// New creates a SourceFetcher with a sensible timeout.
func New(opts ...Option) *SourceFetcher {
	f := &SourceFetcher{
		client:    &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the full text of the given source.
func (f *SourceFetcher) Fetch(ctx context.Context, source string) (*core.FetchResult, error) {
	if IsRemote(source) {
		return f.fetchHTTP(ctx, source)
	}
	return f.fetchFile(source)
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// LocalPath returns the filesystem path of a local source, or "" for URLs.
func LocalPath(source string) string {
	if IsRemote(source) {
		return ""
	}
	if strings.HasPrefix(source, "file://") {
		if u, err := url.Parse(source); err == nil {
			return filepath.FromSlash(u.Path)
		}
	}
	return source
}

func (f *SourceFetcher) fetchHTTP(ctx context.Context, source string) (*core.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/markdown,text/plain,text/html;q=0.8,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: source, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &core.FetchResult{
		Source:      source,
		StatusCode:  resp.StatusCode,
		ContentType: mediaType(resp.Header.Get("Content-Type")),
		Body:        string(body),
	}, nil
}

func (f *SourceFetcher) fetchFile(source string) (*core.FetchResult, error) {
	path := LocalPath(source)
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return &core.FetchResult{
		Source:      source,
		StatusCode:  http.StatusOK,
		ContentType: contentTypeForPath(path),
		Body:        string(body),
	}, nil
}

// mediaType strips parameters such as charset from a Content-Type header.
func mediaType(header string) string {
	if header == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(header))
	}
	return mt
}

func contentTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return "text/html"
	case ".md", ".markdown":
		return "text/markdown"
	default:
		return "text/plain"
	}
}
