package policy

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/publicsuffix"
)

// Region classifies where in the document tree an anchor sits.
type Region string

const (
	// RegionFooter marks anchors inside a footer-like container
	RegionFooter Region = "footer"
	// RegionHeader marks anchors inside a header-like container
	RegionHeader Region = "header"
	// RegionNav marks anchors inside a navigation container
	RegionNav Region = "nav"
	// RegionBody marks anchors with no recognized structural ancestor
	RegionBody Region = "body"
)

// maxAncestorDepth bounds the upward walk when classifying an anchor's region.
const maxAncestorDepth = 5

// Candidate is a discovered anchor considered as a possible policy link.
// Candidates are request-scoped: built fresh per discovery call, scored,
// ranked, and discarded with the response.
type Candidate struct {
	// AbsoluteURL is the href resolved against the page base, always http(s)
	AbsoluteURL string
	// RawHref is the original attribute value, possibly relative
	RawHref string
	// Text is the anchor's display text, lower-cased and whitespace-collapsed
	Text string
	// TitleAttr is the normalized title attribute
	TitleAttr string
	// AriaLabel is the normalized aria-label attribute
	AriaLabel string
	// RelTokens holds the space-split rel attribute tokens
	RelTokens []string
	// OpensNewTab is true for target="_blank" anchors
	OpensNewTab bool
	// Region is the structural classification of the anchor's ancestors
	Region Region
	// Path is the resolved URL path, lower-cased
	Path string
	// PathSegmentCount is the number of non-empty path segments
	PathSegmentCount int
	// PathHasDigits is true when any path segment is digit-heavy
	PathHasDigits bool
	// SameSite is true when the candidate shares the page's registrable domain
	SameSite bool
	// Score is assigned by the scorer; zero until scored
	Score float64
}

// footer/header/nav indicator substrings checked against ancestor tag names,
// classes, and ids. Matches the markup conventions seen across real sites
// (class="site-footer", id="page-bottom", class="legal-links").
var (
	footerIndicators = []string{"footer", "bottom", "legal", "copyright"}
	headerIndicators = []string{"header", "top", "masthead", "banner"}
	navIndicators    = []string{"nav", "menu", "sidebar"}
)

// ExtractCandidates walks all anchors in the rendered HTML and resolves each
// to a Candidate with contextual metadata. Anchors with empty, fragment-only,
// javascript:, mailto:, or tel: hrefs are skipped, as are resolutions outside
// http(s). Malformed markup never fails the walk; unparsable nodes are skipped.
func ExtractCandidates(html, baseURL string) []Candidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Hostname() == "" {
		return nil
	}

	baseRoot := RegistrableDomain(base.Hostname())

	var candidates []Candidate

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if skipHref(href) {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}

		if abs.Hostname() == "" {
			return
		}

		abs.Fragment = ""
		path := strings.ToLower(abs.Path)
		segments := splitPathSegments(path)

		candidates = append(candidates, Candidate{
			AbsoluteURL:      abs.String(),
			RawHref:          href,
			Text:             collapseText(sel.Text()),
			TitleAttr:        collapseText(sel.AttrOr("title", "")),
			AriaLabel:        collapseText(sel.AttrOr("aria-label", "")),
			RelTokens:        strings.Fields(strings.ToLower(sel.AttrOr("rel", ""))),
			OpensNewTab:      sel.AttrOr("target", "") == "_blank",
			Region:           classifyRegion(sel),
			Path:             path,
			PathSegmentCount: len(segments),
			PathHasDigits:    hasDigitSegment(segments),
			SameSite:         RegistrableDomain(abs.Hostname()) == baseRoot,
		})
	})

	return candidates
}

// skipHref filters hrefs that can never resolve to a fetchable page
func skipHref(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return true
	}

	lower := strings.ToLower(href)

	return strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "data:")
}

// classifyRegion walks up to maxAncestorDepth ancestors looking for structural
// containers. Footer indicators are checked first at every level so that an
// anchor inside <footer><nav> still classifies as footer.
func classifyRegion(sel *goquery.Selection) Region {
	parent := sel.Parent()

	for depth := 0; depth < maxAncestorDepth && parent.Length() > 0; depth++ {
		tag := goquery.NodeName(parent)
		haystack := strings.ToLower(tag + " " + parent.AttrOr("class", "") + " " + parent.AttrOr("id", ""))

		switch {
		case containsAny(haystack, footerIndicators):
			return RegionFooter
		case tag == "nav" || containsAny(haystack, navIndicators):
			return RegionNav
		case containsAny(haystack, headerIndicators):
			return RegionHeader
		}

		parent = parent.Parent()
	}

	return RegionBody
}

// containsAny reports whether any needle occurs in the haystack
func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}

	return false
}

// collapseText lower-cases and collapses internal whitespace runs
func collapseText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// splitPathSegments returns the non-empty segments of a URL path
func splitPathSegments(path string) []string {
	var segments []string

	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}

	return segments
}

// hasDigitSegment reports whether any path segment is mostly digits,
// indicating a dynamic resource id rather than a static legal page.
func hasDigitSegment(segments []string) bool {
	for _, seg := range segments {
		digits := 0

		for _, r := range seg {
			if unicode.IsDigit(r) {
				digits++
			}
		}

		if digits > 0 && digits*2 >= len(seg) {
			return true
		}
	}

	return false
}

// RegistrableDomain returns the eTLD+1 for a hostname, falling back to the
// lower-cased input when the public suffix list cannot derive one (bare
// localhost, IPs, single-label hosts).
func RegistrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))

	root, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}

	return root
}
