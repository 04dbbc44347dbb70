package policy

import (
	"net/url"
	"strings"
)

// SimilarURLs reports whether two URLs discovered by independent methods point
// at the same policy document. Hostnames must match after normalization; paths
// match when equal, when one contains the other, or when both carry the token
// for the queried policy type (two differently-worded routes to the same
// document, e.g. /privacy and /legal/privacy-policy).
func SimilarURLs(a, b string, policyType Type) bool {
	hostA, pathA, okA := splitForCompare(a)
	hostB, pathB, okB := splitForCompare(b)

	if !okA || !okB || hostA != hostB {
		return false
	}

	if pathA == pathB {
		return true
	}

	if pathA != "" && pathB != "" &&
		(strings.Contains(pathA, pathB) || strings.Contains(pathB, pathA)) {
		return true
	}

	token := "terms"
	if policyType == TypePrivacy {
		token = "privacy"
	}

	return strings.Contains(pathA, token) && strings.Contains(pathB, token)
}

// DeduplicateResults drops later candidates that are URL-similar to an
// earlier one, preserving order so higher-priority methods win.
func DeduplicateResults(urls []string, policyType Type) []string {
	var unique []string

	for _, u := range urls {
		duplicate := false

		for _, kept := range unique {
			if SimilarURLs(u, kept, policyType) {
				duplicate = true
				break
			}
		}

		if !duplicate {
			unique = append(unique, u)
		}
	}

	return unique
}

// splitForCompare normalizes a URL into comparable host and path parts:
// scheme-insensitive, www-insensitive, case-insensitive, trailing-slash
// insensitive.
func splitForCompare(raw string) (host, path string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", false
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "", "", false
	}

	host = strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	path = strings.TrimRight(strings.ToLower(u.Path), "/")

	return host, path, true
}
