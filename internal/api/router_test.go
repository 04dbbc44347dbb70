package api

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestHealthEndpoint(t *testing.T) {
	router := NewRouter(RouterConfig{Discoverer: &fakeDiscoverer{outcome: failureOutcome()}})

	rec := getPath(t, router, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if resp.Status != "healthy" || resp.Service != "poliscan" {
		t.Errorf("unexpected health payload: %+v", resp)
	}
}

func TestHeartbeat(t *testing.T) {
	router := NewRouter(RouterConfig{Discoverer: &fakeDiscoverer{outcome: failureOutcome()}})

	rec := getPath(t, router, "/ping")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 from heartbeat, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	router := NewRouter(RouterConfig{Discoverer: &fakeDiscoverer{outcome: failureOutcome()}})

	rec := getPath(t, router, "/api/tos")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET on discovery endpoint must 405, got %d", rec.Code)
	}
}
