package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/poliscan/poliscan/internal/policy"
	"github.com/poliscan/poliscan/internal/store"
)

func seedDocument(t *testing.T, s *store.Store, domain string, policyType policy.Type) *store.Document {
	t.Helper()

	saved, err := s.Save(context.Background(), &store.Document{
		Domain:     domain,
		PolicyType: policyType,
		URL:        "https://" + domain + "/legal",
		Method:     "static",
		Confirmed:  true,
		Score:      120,
		Text:       "sample policy text about personal data",
		WordCount:  6,
	})
	if err != nil {
		t.Fatalf("seed document: %v", err)
	}

	return saved.Document
}

func getPath(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestListDocuments(t *testing.T) {
	s := newTestStore(t)
	seedDocument(t, s, "alpha.com", policy.TypeTerms)
	seedDocument(t, s, "beta.com", policy.TypePrivacy)

	router := NewRouter(RouterConfig{Discoverer: &fakeDiscoverer{outcome: failureOutcome()}, Store: s})

	rec := getPath(t, router, "/api/documents/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp DocumentsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if resp.Count != 2 || len(resp.Data) != 2 {
		t.Errorf("expected 2 documents, got count=%d len=%d", resp.Count, len(resp.Data))
	}
}

func TestGetDocument(t *testing.T) {
	s := newTestStore(t)
	doc := seedDocument(t, s, "alpha.com", policy.TypeTerms)

	router := NewRouter(RouterConfig{Discoverer: &fakeDiscoverer{outcome: failureOutcome()}, Store: s})

	rec := getPath(t, router, "/api/documents/"+doc.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp DocumentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if resp.Data == nil || resp.Data.ID != doc.ID {
		t.Errorf("wrong document returned: %+v", resp.Data)
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	s := newTestStore(t)

	router := NewRouter(RouterConfig{Discoverer: &fakeDiscoverer{outcome: failureOutcome()}, Store: s})

	rec := getPath(t, router, "/api/documents/no-such-id")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestSearchDocuments(t *testing.T) {
	s := newTestStore(t)
	seedDocument(t, s, "alpha.com", policy.TypeTerms)
	seedDocument(t, s, "beta.com", policy.TypePrivacy)

	router := NewRouter(RouterConfig{Discoverer: &fakeDiscoverer{outcome: failureOutcome()}, Store: s})

	rec := getPath(t, router, "/api/documents/search?q=alpha")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp DocumentsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if resp.Count != 1 {
		t.Errorf("expected 1 match, got %d", resp.Count)
	}

	if rec := getPath(t, router, "/api/documents/search"); rec.Code != http.StatusBadRequest {
		t.Errorf("missing q must 400, got %d", rec.Code)
	}
}

func TestDeleteDocument(t *testing.T) {
	s := newTestStore(t)
	doc := seedDocument(t, s, "alpha.com", policy.TypeTerms)

	router := NewRouter(RouterConfig{Discoverer: &fakeDiscoverer{outcome: failureOutcome()}, Store: s})

	req := httptest.NewRequest(http.MethodDelete, "/api/documents/"+doc.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if _, err := s.Get(context.Background(), doc.ID); err == nil {
		t.Error("document still present after delete")
	}

	// second delete of the same ID
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/documents/"+doc.ID, nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on repeat delete, got %d", rec.Code)
	}
}

func TestDocumentsWithoutStore(t *testing.T) {
	router := NewRouter(RouterConfig{Discoverer: &fakeDiscoverer{outcome: failureOutcome()}})

	rec := getPath(t, router, "/api/documents/")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without store, got %d", rec.Code)
	}
}
