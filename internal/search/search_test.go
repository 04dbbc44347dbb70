package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poliscan/poliscan/internal/fetch"
	"github.com/poliscan/poliscan/internal/policy"
)

// stubFetcher returns canned HTML for any URL
type stubFetcher struct {
	html string
	err  error
	urls []string
}

func (s *stubFetcher) FetchStatic(_ context.Context, url string) (*fetch.Result, error) {
	s.urls = append(s.urls, url)

	if s.err != nil {
		return nil, s.err
	}

	return &fetch.Result{HTML: s.html, FinalURL: url, StatusCode: 200}, nil
}

const duckduckgoFixture = `
<html><body>
<div class="results">
	<div class="result results_links">
		<a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fprivacy-policy&rut=abc">Privacy Policy | Example</a>
		<a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fprivacy-policy">Learn how Example collects and uses personal data.</a>
	</div>
	<div class="result results_links">
		<a class="result__a" href="https://example.com/careers">Careers at Example</a>
		<a class="result__snippet" href="https://example.com/careers">Join our team.</a>
	</div>
	<div class="result">
		<a class="result__a" href="javascript:void(0)">Ad</a>
	</div>
</div>
</body></html>`

func TestDuckDuckGoParsesAndUnwrapsRedirects(t *testing.T) {
	stub := &stubFetcher{html: duckduckgoFixture}
	provider := NewDuckDuckGo(stub)

	results, err := provider.Search(context.Background(), "site:example.com privacy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d: %+v", len(results), results)
	}

	if results[0].URL != "https://example.com/privacy-policy" {
		t.Errorf("uddg redirect not unwrapped: %s", results[0].URL)
	}

	if results[0].Title != "Privacy Policy | Example" {
		t.Errorf("unexpected title: %q", results[0].Title)
	}

	if !strings.Contains(results[0].Snippet, "personal data") {
		t.Errorf("snippet not extracted: %q", results[0].Snippet)
	}

	if len(stub.urls) != 1 || !strings.Contains(stub.urls[0], "q=site%3Aexample.com") {
		t.Errorf("query not encoded into request url: %v", stub.urls)
	}
}

func TestDuckDuckGoEmptyPage(t *testing.T) {
	provider := NewDuckDuckGo(&stubFetcher{html: "<html><body>no results</body></html>"})

	if _, err := provider.Search(context.Background(), "q"); !errors.Is(err, ErrNoResults) {
		t.Errorf("expected ErrNoResults, got %v", err)
	}
}

func TestDuckDuckGoFetchFailure(t *testing.T) {
	provider := NewDuckDuckGo(&stubFetcher{err: fetch.ErrFetchFailed})

	if _, err := provider.Search(context.Background(), "q"); !errors.Is(err, ErrSearchFailed) {
		t.Errorf("expected ErrSearchFailed, got %v", err)
	}
}

const bingFixture = `
<html><body>
<ol id="b_results">
	<li class="b_algo">
		<h2><a href="https://example.com/legal/terms">Terms of Service - Example</a></h2>
		<div class="b_caption"><p>These terms govern your use of Example.</p></div>
	</li>
	<li class="b_algo">
		<h2><a href="/relative-skipped">Bad</a></h2>
	</li>
</ol>
</body></html>`

func TestBingParsesOrganicResults(t *testing.T) {
	provider := NewBing(&stubFetcher{html: bingFixture})

	results, err := provider.Search(context.Background(), "site:example.com terms")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	if results[0].URL != "https://example.com/legal/terms" {
		t.Errorf("unexpected url: %s", results[0].URL)
	}

	if !strings.Contains(results[0].Snippet, "govern your use") {
		t.Errorf("caption not extracted: %q", results[0].Snippet)
	}
}

func TestBuildQuery(t *testing.T) {
	terms := BuildQuery("example.com", policy.TypeTerms)
	privacy := BuildQuery("example.com", policy.TypePrivacy)

	for _, q := range []string{terms, privacy} {
		if !strings.HasPrefix(q, "site:example.com ") {
			t.Errorf("query must be site-restricted: %q", q)
		}

		if !strings.Contains(q, "-careers") || !strings.Contains(q, "-jobs") {
			t.Errorf("query must exclude job pages: %q", q)
		}
	}

	if !strings.Contains(terms, "terms of service") {
		t.Errorf("terms query missing phrase: %q", terms)
	}

	if !strings.Contains(privacy, "privacy policy") {
		t.Errorf("privacy query missing phrase: %q", privacy)
	}
}
