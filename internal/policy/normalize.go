package policy

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
)

// minTLDLength is the shortest acceptable final host label ("io", "co", "uk")
const minTLDLength = 2

// malformedSchemePattern catches truncated double-scheme artifacts produced by
// copy-paste errors, such as "https://ttps://example.com".
var malformedSchemePattern = regexp.MustCompile(`(?i)^https?://h?t?tps?://`)

// Normalize canonicalizes an arbitrary user-supplied string into a well-formed
// absolute http(s) URL, or returns ErrInvalidURL. The function is pure and
// idempotent: feeding its own output back in yields the same string.
func Normalize(raw string) (string, error) {
	cleaned := strings.TrimFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	})
	cleaned = strings.TrimRight(cleaned, "/")

	if cleaned == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidURL)
	}

	lower := strings.ToLower(cleaned)

	switch {
	case strings.HasPrefix(lower, "http://"):
		cleaned = "http://" + cleaned[len("http://"):]
	case strings.HasPrefix(lower, "https://"):
		cleaned = "https://" + cleaned[len("https://"):]
	default:
		cleaned = "https://" + cleaned
	}

	if malformedSchemePattern.MatchString(cleaned) {
		log.Warn().Str("input", raw).Msg("rejecting url with malformed double scheme")
		return "", fmt.Errorf("%w: malformed scheme", ErrInvalidURL)
	}

	parsed, err := url.Parse(cleaned)
	if err != nil {
		log.Warn().Str("input", raw).Err(err).Msg("rejecting unparsable url")
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	if !strings.Contains(host, ".") {
		log.Warn().Str("input", raw).Msg("rejecting url without dotted host")
		return "", fmt.Errorf("%w: host has no dot", ErrInvalidURL)
	}

	labels := strings.Split(host, ".")
	if len(labels[len(labels)-1]) < minTLDLength {
		log.Warn().Str("input", raw).Msg("rejecting url with short tld")
		return "", fmt.Errorf("%w: tld too short", ErrInvalidURL)
	}

	rebuilt := url.URL{
		Scheme:   parsed.Scheme,
		Host:     host,
		Path:     strings.TrimRight(parsed.Path, "/"),
		RawQuery: parsed.RawQuery,
	}

	if port := parsed.Port(); port != "" {
		rebuilt.Host = host + ":" + port
	}

	return rebuilt.String(), nil
}
