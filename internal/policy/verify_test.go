package policy

import "testing"

func TestSimilarURLsNormalization(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"https://example.com/privacy", "http://www.example.com/privacy/", true},
		{"HTTPS://EXAMPLE.COM/PRIVACY", "example.com/privacy", true},
		{"https://example.com/privacy", "https://other.com/privacy", false},
	}

	for _, tc := range cases {
		if got := SimilarURLs(tc.a, tc.b, TypePrivacy); got != tc.want {
			t.Errorf("SimilarURLs(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSimilarURLsPathContainment(t *testing.T) {
	if !SimilarURLs("https://example.com/legal/terms", "https://example.com/legal/terms-of-service", TypeTerms) {
		t.Error("one path containing the other must match")
	}
}

func TestSimilarURLsTypeToken(t *testing.T) {
	if !SimilarURLs("https://example.com/privacy", "https://example.com/legal/privacy-policy", TypePrivacy) {
		t.Error("two privacy-token paths on the same host must match")
	}

	if SimilarURLs("https://example.com/privacy", "https://example.com/about", TypePrivacy) {
		t.Error("unrelated paths must not match")
	}
}

func TestSimilarURLsRejectsGarbage(t *testing.T) {
	if SimilarURLs("", "https://example.com/terms", TypeTerms) {
		t.Error("empty input must not match")
	}

	if SimilarURLs(":::", "https://example.com/terms", TypeTerms) {
		t.Error("unparsable input must not match")
	}
}

func TestDeduplicateResultsKeepsFirst(t *testing.T) {
	got := DeduplicateResults([]string{
		"https://example.com/terms",
		"https://www.example.com/terms/",
		"https://example.com/legal/terms-of-use",
		"https://other.com/terms",
	}, TypeTerms)

	if len(got) != 2 {
		t.Fatalf("expected 2 unique urls, got %d: %v", len(got), got)
	}

	if got[0] != "https://example.com/terms" {
		t.Errorf("first-seen url must be kept, got %s", got[0])
	}
}
