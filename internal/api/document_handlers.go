package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/poliscan/poliscan/internal/store"
)

// DocumentsResponse is the API envelope for document listings.
type DocumentsResponse struct {
	// Success indicates whether the query completed
	Success bool `json:"success"`
	// Data holds the matched documents; empty slice when none matched
	Data []*store.Document `json:"data,omitempty"`
	// Count is the number of documents returned
	Count int `json:"count"`
	// Error is the normalized error payload on failure
	Error *Error `json:"error,omitempty"`
}

// DocumentResponse is the API envelope for a single document.
type DocumentResponse struct {
	// Success indicates whether the lookup completed
	Success bool `json:"success"`
	// Data holds the document when found
	Data *store.Document `json:"data,omitempty"`
	// Error is the normalized error payload on failure
	Error *Error `json:"error,omitempty"`
}

// handleListDocuments returns all stored documents, newest first.
func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondDocumentsError(w, http.StatusServiceUnavailable, errCodeUnavailable, ErrStoreNotConfigured.Error())
		return
	}

	docs, err := h.store.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("document listing failed")
		respondDocumentsError(w, http.StatusInternalServerError, errCodeInternal, "document listing failed")

		return
	}

	writeJSON(w, http.StatusOK, DocumentsResponse{
		Success: true,
		Data:    docs,
		Count:   len(docs),
	})
}

// handleSearchDocuments returns documents matching a substring query over
// domain, URL, and extracted text.
func (h *Handler) handleSearchDocuments(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondDocumentsError(w, http.StatusServiceUnavailable, errCodeUnavailable, ErrStoreNotConfigured.Error())
		return
	}

	term := r.URL.Query().Get("q")
	if term == "" {
		respondDocumentsError(w, http.StatusBadRequest, errCodeValidation, ErrSearchTermRequired.Error())
		return
	}

	docs, err := h.store.Search(r.Context(), term)
	if err != nil {
		log.Error().Err(err).Str("term", term).Msg("document search failed")
		respondDocumentsError(w, http.StatusInternalServerError, errCodeInternal, "document search failed")

		return
	}

	writeJSON(w, http.StatusOK, DocumentsResponse{
		Success: true,
		Data:    docs,
		Count:   len(docs),
	})
}

// handleGetDocument returns one stored document by ID.
func (h *Handler) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondDocumentError(w, http.StatusServiceUnavailable, errCodeUnavailable, ErrStoreNotConfigured.Error())
		return
	}

	id := chi.URLParam(r, "id")

	doc, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondDocumentError(w, http.StatusNotFound, errCodeNotFound, store.ErrNotFound.Error())
			return
		}

		log.Error().Err(err).Str("id", id).Msg("document lookup failed")
		respondDocumentError(w, http.StatusInternalServerError, errCodeInternal, "document lookup failed")

		return
	}

	writeJSON(w, http.StatusOK, DocumentResponse{
		Success: true,
		Data:    doc,
	})
}

// handleDeleteDocument removes one stored document by ID.
func (h *Handler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondDocumentError(w, http.StatusServiceUnavailable, errCodeUnavailable, ErrStoreNotConfigured.Error())
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondDocumentError(w, http.StatusNotFound, errCodeNotFound, store.ErrNotFound.Error())
			return
		}

		log.Error().Err(err).Str("id", id).Msg("document delete failed")
		respondDocumentError(w, http.StatusInternalServerError, errCodeInternal, "document delete failed")

		return
	}

	writeJSON(w, http.StatusOK, DocumentResponse{Success: true})
}

func respondDocumentsError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, DocumentsResponse{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

func respondDocumentError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, DocumentResponse{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}
