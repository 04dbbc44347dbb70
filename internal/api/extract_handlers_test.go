package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/poliscan/poliscan/internal/fetch"
)

func TestExtractSuccess(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.com/legal/terms": policyPageHTML,
	}}

	router := NewRouter(RouterConfig{Discoverer: &fakeDiscoverer{outcome: failureOutcome()}, Fetcher: fetcher})

	rec := postJSON(t, router, "/api/extract", `{"url":"https://example.com/legal/terms"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ExtractResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if resp.Data == nil {
		t.Fatal("expected extraction data")
	}

	if resp.Data.Text == "" {
		t.Error("expected extracted text")
	}

	if resp.Data.Metrics.WordCount == 0 {
		t.Error("expected word count in metrics")
	}

	if len(resp.Data.TopWords) == 0 {
		t.Error("expected top word frequencies")
	}

	if resp.Data.URL != "https://example.com/legal/terms" {
		t.Errorf("unexpected final URL %q", resp.Data.URL)
	}
}

func TestExtractBotChallenge(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://blocked.example.com/": `<html><head><title>Just a moment...</title></head><body></body></html>`,
	}}

	router := NewRouter(RouterConfig{Discoverer: &fakeDiscoverer{outcome: failureOutcome()}, Fetcher: fetcher})

	rec := postJSON(t, router, "/api/extract", `{"url":"https://blocked.example.com/"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("bot challenge must 502, got %d", rec.Code)
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://empty.example.com/": `<html><body><script>boot()</script></body></html>`,
	}}

	router := NewRouter(RouterConfig{Discoverer: &fakeDiscoverer{outcome: failureOutcome()}, Fetcher: fetcher})

	rec := postJSON(t, router, "/api/extract", `{"url":"https://empty.example.com/"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("empty document must 422, got %d", rec.Code)
	}
}

func TestExtractFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: fetch.ErrFetchFailed}

	router := NewRouter(RouterConfig{Discoverer: &fakeDiscoverer{outcome: failureOutcome()}, Fetcher: fetcher})

	rec := postJSON(t, router, "/api/extract", `{"url":"https://down.example.com/"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("fetch failure must 502, got %d", rec.Code)
	}
}

func TestExtractMissingURL(t *testing.T) {
	router := NewRouter(RouterConfig{Discoverer: &fakeDiscoverer{outcome: failureOutcome()}, Fetcher: &fakeFetcher{}})

	rec := postJSON(t, router, "/api/extract", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing url must 400, got %d", rec.Code)
	}
}

func TestExtractWithoutFetcher(t *testing.T) {
	router := NewRouter(RouterConfig{Discoverer: &fakeDiscoverer{outcome: failureOutcome()}})

	rec := postJSON(t, router, "/api/extract", `{"url":"https://example.com/"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without fetcher, got %d", rec.Code)
	}
}
