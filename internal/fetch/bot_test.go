package fetch

import (
	"strings"
	"testing"
)

func TestIsBlockedRecognizesVendors(t *testing.T) {
	cases := []struct {
		html   string
		vendor string
	}{
		{"<title>Just a moment...</title>", "cloudflare"},
		{`<div id="cf-browser-verification"></div>`, "cloudflare"},
		{`<script src="https://captcha-delivery.com/c.js"></script>`, "datadome"},
		{`<script>window._abck = "x"; // akamai sensor</script>`, "akamai"},
		{`<div id="px-captcha"></div>`, "perimeterx"},
		{`<form action="/recaptcha/verify"></form>`, "recaptcha"},
		{"We detected unusual traffic from your computer network", "google-captcha"},
	}

	for _, tc := range cases {
		blocked, vendor := IsBlocked(tc.html)
		if !blocked {
			t.Errorf("expected %q to be recognized as blocked", tc.html)
			continue
		}

		if vendor != tc.vendor {
			t.Errorf("expected vendor %s, got %s", tc.vendor, vendor)
		}
	}
}

func TestIsBlockedIgnoresRealContent(t *testing.T) {
	blocked, _ := IsBlocked("<html><body><h1>Privacy Policy</h1><p>We collect...</p></body></html>")
	if blocked {
		t.Error("ordinary content must not be treated as blocked")
	}
}

func TestIsBlockedLargePageMentioningRecaptcha(t *testing.T) {
	// a long article that merely mentions recaptcha is not a challenge shell
	html := "<html><body>" + strings.Repeat("<p>terms content</p>", 1000) + "<p>we use recaptcha on signup</p></body></html>"

	if blocked, _ := IsBlocked(html); blocked {
		t.Error("large pages mentioning recaptcha must pass")
	}
}
