package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/poliscan/poliscan/internal/fetch"
	"github.com/poliscan/poliscan/internal/notify"
	"github.com/poliscan/poliscan/internal/policy"
	"github.com/poliscan/poliscan/internal/store"
)

const (
	// defaultRequestTimeout bounds a whole request, including the
	// multi-stage discovery chain behind the tos/privacy endpoints
	defaultRequestTimeout = 4 * time.Minute
	// compressionLevel is the gzip level for response compression
	compressionLevel = 5
)

// RouterConfig wires the handler's collaborators. Discoverer is required;
// everything else is optional.
type RouterConfig struct {
	// Discoverer runs the discovery chain
	Discoverer Discoverer
	// Store persists discovered documents; nil disables the documents API
	Store *store.Store
	// Notifier sends Slack messages for newly stored documents; may be nil
	Notifier *notify.Notifier
	// Fetcher retrieves pages for text extraction and persistence
	Fetcher fetch.StaticFetcher
	// MaxBodySize caps request body bytes when positive
	MaxBodySize int64
	// RequestTimeout overrides the default per-request deadline when positive
	RequestTimeout time.Duration
}

// NewRouter creates a chi router with all endpoints and middleware
func NewRouter(cfg RouterConfig) http.Handler {
	h := &Handler{
		discoverer:  cfg.Discoverer,
		store:       cfg.Store,
		notifier:    cfg.Notifier,
		fetcher:     cfg.Fetcher,
		maxBodySize: cfg.MaxBodySize,
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Compress(compressionLevel))
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Heartbeat("/ping"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)
		r.Post("/tos", h.handleDiscovery(policy.TypeTerms))
		r.Post("/privacy", h.handleDiscovery(policy.TypePrivacy))
		r.Post("/extract", h.handleExtract)

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", h.handleListDocuments)
			r.Get("/search", h.handleSearchDocuments)
			r.Get("/{id}", h.handleGetDocument)
			r.Delete("/{id}", h.handleDeleteDocument)
		})
	})

	return r
}
