package fetch

import "strings"

// smallPageLimit bounds how large a document can be while still being treated
// as a challenge shell; real pages mentioning "recaptcha" in passing are
// typically much larger than an actual challenge interstitial.
const smallPageLimit = 10000

// IsBlocked reports whether the HTML is a bot-protection challenge page
// rather than real content, and names the vendor when recognized.
func IsBlocked(html string) (bool, string) {
	if strings.Contains(html, "Just a moment...") ||
		strings.Contains(html, "cf-browser-verification") ||
		strings.Contains(html, "cf_chl_opt") {
		return true, "cloudflare"
	}

	if strings.Contains(html, "captcha-delivery.com") || strings.Contains(html, "DataDome") {
		return true, "datadome"
	}

	if strings.Contains(html, "_abck") && strings.Contains(html, "akamai") {
		return true, "akamai"
	}

	if strings.Contains(html, "perimeterx") || strings.Contains(html, "px-captcha") {
		return true, "perimeterx"
	}

	if strings.Contains(html, "recaptcha") && len(html) < smallPageLimit {
		return true, "recaptcha"
	}

	if strings.Contains(html, "unusual traffic from your computer network") {
		return true, "google-captcha"
	}

	return false, ""
}
