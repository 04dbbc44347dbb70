// Package api provides the HTTP surface for the policy discovery service.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/poliscan/poliscan/internal/discover"
	"github.com/poliscan/poliscan/internal/fetch"
	"github.com/poliscan/poliscan/internal/notify"
	"github.com/poliscan/poliscan/internal/policy"
	"github.com/poliscan/poliscan/internal/store"
)

// Discoverer runs the discovery chain for one URL and document type.
// The orchestrator satisfies this; tests substitute fakes.
type Discoverer interface {
	Discover(ctx context.Context, rawURL string, policyType policy.Type) *discover.Outcome
}

// Handler manages API endpoints. Optional collaborators (store, notifier,
// fetcher) may be nil; the affected endpoints degrade or 503.
type Handler struct {
	discoverer  Discoverer
	store       *store.Store
	notifier    *notify.Notifier
	fetcher     fetch.StaticFetcher
	maxBodySize int64
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// handleHealth returns service health status
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   "poliscan",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
