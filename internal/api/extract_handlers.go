package api

import (
	"errors"
	"net/http"

	"github.com/poliscan/poliscan/internal/analyze"
)

// topWordCount is how many frequency entries the extract endpoint returns
const topWordCount = 20

// ExtractRequest asks for plain text and metrics for one URL, typically a
// policy URL resolved by an earlier discovery call.
type ExtractRequest struct {
	// URL is the page to fetch and analyze
	URL string `json:"url"`
}

// ExtractResult holds the extracted text and its analysis.
type ExtractResult struct {
	// URL is the fetched page, after redirects
	URL string `json:"url"`
	// Text is the extracted plain text
	Text string `json:"text"`
	// TopWords are the most frequent non-stopword tokens
	TopWords []analyze.WordCount `json:"top_words"`
	// Metrics are the readability measurements for the text
	Metrics analyze.Metrics `json:"metrics"`
}

// ExtractResponse is the API envelope for text extraction.
type ExtractResponse struct {
	// Success indicates whether extraction completed
	Success bool `json:"success"`
	// Data holds the extraction result when successful
	Data *ExtractResult `json:"data,omitempty"`
	// Error is the normalized error payload on failure
	Error *Error `json:"error,omitempty"`
}

// handleExtract fetches a page and returns its plain text with word
// frequencies and readability metrics.
func (h *Handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	if h.fetcher == nil {
		respondExtractError(w, http.StatusServiceUnavailable, errCodeUnavailable, ErrFetcherNotConfigured.Error())
		return
	}

	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var req ExtractRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondExtractError(w, http.StatusBadRequest, errCodeInvalidRequest, ErrInvalidRequestBody.Error())
		return
	}

	if req.URL == "" {
		respondExtractError(w, http.StatusBadRequest, errCodeValidation, ErrURLRequired.Error())
		return
	}

	page, err := h.fetcher.FetchStatic(r.Context(), req.URL)
	if err != nil {
		respondExtractError(w, http.StatusBadGateway, errCodeUpstream, err.Error())
		return
	}

	text, err := analyze.ExtractText(page.HTML)
	if err != nil {
		status, code := extractErrorStatus(err)
		respondExtractError(w, status, code, err.Error())

		return
	}

	writeJSON(w, http.StatusOK, ExtractResponse{
		Success: true,
		Data: &ExtractResult{
			URL:      page.FinalURL,
			Text:     text,
			TopWords: analyze.Frequencies(text, topWordCount),
			Metrics:  analyze.Readability(text),
		},
	})
}

// extractErrorStatus maps extraction failures onto HTTP statuses. Bot
// verification is an upstream condition; empty or binary content is a
// property of the requested page.
func extractErrorStatus(err error) (int, string) {
	if errors.Is(err, analyze.ErrBotVerification) {
		return http.StatusBadGateway, errCodeUpstream
	}

	return http.StatusUnprocessableEntity, errCodeValidation
}

func respondExtractError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ExtractResponse{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}
