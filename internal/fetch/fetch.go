package fetch

import (
	"context"
	"time"
)

const (
	// defaultFetchTimeout is the per-request timeout for static fetches
	defaultFetchTimeout = 15 * time.Second
	// defaultRenderTimeout bounds a full browser navigation including
	// challenge-page settle time
	defaultRenderTimeout = 30 * time.Second
	// defaultMaxRedirects is the maximum redirect hops to follow
	defaultMaxRedirects = 5
	// defaultMaxBodySize caps the response body read on static fetches (1MB)
	defaultMaxBodySize = 1024 * 1024
	// defaultBrowserSlots is the process-wide cap on concurrent browser pages
	defaultBrowserSlots = 4
	// defaultUserAgent identifies the crawler on static fetches
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Result is the outcome of a page fetch, static or rendered.
type Result struct {
	// HTML is the document body (static) or serialized DOM (rendered)
	HTML string
	// FinalURL is the URL after following redirects
	FinalURL string
	// StatusCode is the HTTP status; zero for browser fetches
	StatusCode int
}

// ScrollResult carries the DOM snapshots taken during a progressive scroll.
type ScrollResult struct {
	// FinalURL is the URL after navigation and redirects
	FinalURL string
	// Snapshots holds the serialized DOM after each scroll checkpoint,
	// in checkpoint order
	Snapshots []string
}

// StaticFetcher retrieves pages over plain HTTP without script execution.
type StaticFetcher interface {
	// FetchStatic GETs the URL and returns the raw document
	FetchStatic(ctx context.Context, url string) (*Result, error)
}

// Renderer retrieves pages through a real browser, executing scripts.
type Renderer interface {
	// FetchRendered navigates to the URL and returns the post-render DOM
	FetchRendered(ctx context.Context, url string) (*Result, error)
	// FetchScrolled navigates, then scrolls through the given fractions of
	// page height, snapshotting the DOM after each checkpoint
	FetchScrolled(ctx context.Context, url string, checkpoints []float64) (*ScrollResult, error)
}

// Options configures fetch behavior
type Options struct {
	fetchTimeout  time.Duration
	renderTimeout time.Duration
	maxRedirects  int
	maxBodySize   int64
	browserSlots  int
	userAgent     string
	chromePath    string
}

// Option is a functional option for configuring fetchers
type Option func(*Options)

// WithFetchTimeout sets the per-request static fetch timeout
func WithFetchTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.fetchTimeout = d
		}
	}
}

// WithRenderTimeout sets the per-navigation browser timeout
func WithRenderTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.renderTimeout = d
		}
	}
}

// WithMaxRedirects sets the redirect hop limit
func WithMaxRedirects(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.maxRedirects = n
		}
	}
}

// WithBrowserSlots sets the concurrent browser page cap
func WithBrowserSlots(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.browserSlots = n
		}
	}
}

// WithUserAgent overrides the crawler user agent
func WithUserAgent(ua string) Option {
	return func(o *Options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithChromePath points the browser launcher at a specific Chrome binary
func WithChromePath(path string) Option {
	return func(o *Options) {
		o.chromePath = path
	}
}

func defaultOptions() *Options {
	return &Options{
		fetchTimeout:  defaultFetchTimeout,
		renderTimeout: defaultRenderTimeout,
		maxRedirects:  defaultMaxRedirects,
		maxBodySize:   defaultMaxBodySize,
		browserSlots:  defaultBrowserSlots,
		userAgent:     defaultUserAgent,
	}
}

func buildOptions(opts ...Option) *Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return options
}
