package policy

import (
	"errors"
	"testing"
)

func TestNormalizeAddsScheme(t *testing.T) {
	got, err := Normalize("example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "https://example.com" {
		t.Errorf("expected https://example.com, got %s", got)
	}
}

func TestNormalizeLowercasesHostOnly(t *testing.T) {
	got, err := Normalize("HTTPS://EXAMPLE.COM/Legal/Terms?Ref=Footer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "https://example.com/Legal/Terms?Ref=Footer" {
		t.Errorf("path and query casing must survive, got %s", got)
	}
}

func TestNormalizeStripsTrailingSlash(t *testing.T) {
	got, err := Normalize("https://example.com/privacy/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "https://example.com/privacy" {
		t.Errorf("expected trailing slash stripped, got %s", got)
	}
}

func TestNormalizePreservesPort(t *testing.T) {
	got, err := Normalize("example.com:8443/terms")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "https://example.com:8443/terms" {
		t.Errorf("expected port preserved, got %s", got)
	}
}

func TestNormalizeTrimsWhitespaceAndControls(t *testing.T) {
	got, err := Normalize("  \t example.com \n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "https://example.com" {
		t.Errorf("expected trimmed input to normalize, got %s", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Example.COM/Terms/",
		"http://sub.example.co.uk/privacy?x=1",
		"example.com:8080",
	}

	for _, in := range inputs {
		first, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q) failed: %v", in, err)
		}

		second, err := Normalize(first)
		if err != nil {
			t.Fatalf("re-normalizing %q failed: %v", first, err)
		}

		if first != second {
			t.Errorf("not idempotent: %q -> %q -> %q", in, first, second)
		}
	}
}

func TestNormalizeRejectsInvalidInput(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"https://https://example.com",
		"https://ttps://example.com",
		"localhost",
		"example.c",
		"https:///path-only",
	}

	for _, in := range inputs {
		if _, err := Normalize(in); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("Normalize(%q): expected ErrInvalidURL, got %v", in, err)
		}
	}
}
