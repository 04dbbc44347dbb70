package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/poliscan/poliscan/internal/analyze"
	"github.com/poliscan/poliscan/internal/discover"
	"github.com/poliscan/poliscan/internal/policy"
	"github.com/poliscan/poliscan/internal/store"
)

// DiscoveryRequest asks for one policy document on one site.
type DiscoveryRequest struct {
	// URL is the page to start discovery from; a bare domain works too
	URL string `json:"url"`
	// Persist controls whether a successful discovery is stored.
	// Defaults to true when a store is configured.
	Persist *bool `json:"persist,omitempty"`
}

// DiscoveryResponse is the API envelope for discovery results. The outcome
// is populated on failure as well, so callers always see the stage trail.
type DiscoveryResponse struct {
	// Success mirrors the outcome's success flag
	Success bool `json:"success"`
	// Outcome is the full discovery result including per-stage attempts
	Outcome *discover.Outcome `json:"outcome,omitempty"`
	// Document is the stored record when persistence ran
	Document *store.Document `json:"document,omitempty"`
	// AlreadyExisted is true when the domain/type pair was stored previously
	AlreadyExisted bool `json:"already_existed,omitempty"`
	// Error is the normalized error payload on request-level failures
	Error *Error `json:"error,omitempty"`
}

// handleDiscovery builds the handler for one policy type. The tos and
// privacy endpoints share everything except the type they target.
func (h *Handler) handleDiscovery(policyType policy.Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.discoverer == nil {
			respondDiscoveryError(w, http.StatusServiceUnavailable, errCodeUnavailable, "discovery not configured")
			return
		}

		if h.maxBodySize > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
		}

		var req DiscoveryRequest
		if err := decodeJSONBody(r, &req); err != nil {
			respondDiscoveryError(w, http.StatusBadRequest, errCodeInvalidRequest, ErrInvalidRequestBody.Error())
			return
		}

		if req.URL == "" {
			respondDiscoveryError(w, http.StatusBadRequest, errCodeValidation, ErrURLRequired.Error())
			return
		}

		outcome := h.discoverer.Discover(r.Context(), req.URL, policyType)

		if !outcome.Success {
			writeJSON(w, http.StatusNotFound, DiscoveryResponse{
				Success: false,
				Outcome: outcome,
			})

			return
		}

		resp := DiscoveryResponse{
			Success: true,
			Outcome: outcome,
		}

		shouldPersist := req.Persist == nil || *req.Persist
		if shouldPersist && h.store != nil {
			saved := h.persistOutcome(r.Context(), outcome)
			if saved != nil {
				resp.Document = saved.Document
				resp.AlreadyExisted = saved.AlreadyExisted
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// persistOutcome stores a successful discovery, enriching it with extracted
// text and readability metrics when the page can be fetched. Persistence
// failures are logged, not surfaced: the discovery itself already succeeded.
func (h *Handler) persistOutcome(ctx context.Context, outcome *discover.Outcome) *store.SaveResult {
	doc := &store.Document{
		Domain:     outcome.Domain,
		PolicyType: outcome.PolicyType,
		URL:        outcome.ResolvedURL,
		Method:     outcome.Method,
		Confirmed:  outcome.Confirmed,
		Score:      outcome.Score,
	}

	if h.fetcher != nil {
		h.enrichDocument(ctx, doc)
	}

	saved, err := h.store.Save(ctx, doc)
	if err != nil {
		log.Error().Err(err).Str("domain", doc.Domain).Str("policy_type", string(doc.PolicyType)).Msg("failed to persist discovery")
		return nil
	}

	if !saved.AlreadyExisted {
		h.notifier.DiscoveryStored(ctx, saved.Document)
	}

	return saved
}

// enrichDocument fetches the resolved URL and fills in text metrics.
// Best effort; a document without text is still worth storing.
func (h *Handler) enrichDocument(ctx context.Context, doc *store.Document) {
	started := time.Now()

	page, err := h.fetcher.FetchStatic(ctx, doc.URL)
	if err != nil {
		log.Warn().Err(err).Str("url", doc.URL).Msg("could not fetch policy page for text extraction")
		return
	}

	text, err := analyze.ExtractText(page.HTML)
	if err != nil {
		log.Warn().Err(err).Str("url", doc.URL).Msg("could not extract policy text")
		return
	}

	metrics := analyze.Readability(text)
	doc.Text = text
	doc.WordCount = metrics.WordCount
	doc.ReadingEase = metrics.FleschReadingEase

	log.Debug().Str("url", doc.URL).Int("words", metrics.WordCount).Dur("elapsed", time.Since(started)).Msg("policy text extracted")
}

func respondDiscoveryError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, DiscoveryResponse{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}
