package policy

import "regexp"

// Type identifies which legal document a discovery run is looking for.
type Type string

const (
	// TypeTerms targets Terms-of-Service style documents
	TypeTerms Type = "tos"
	// TypePrivacy targets Privacy-Policy style documents
	TypePrivacy Type = "privacy"
)

// Valid reports whether the policy type is one of the supported values.
func (t Type) Valid() bool {
	return t == TypeTerms || t == TypePrivacy
}

// Label returns a human-readable name for the policy type.
func (t Type) Label() string {
	if t == TypePrivacy {
		return "Privacy Policy"
	}

	return "Terms of Service"
}

// typePatterns holds the text, path, and attribute signals for one policy type.
// All matching is generic by design: the scorer must work on any site layout,
// so there are no per-domain entries anywhere in these tables.
type typePatterns struct {
	// canonical phrases give the highest text-match confidence
	canonical []string
	// keywords are bare terms that still suggest the right document
	keywords []string
	// strongPaths match when the URL path equals or ends with the entry
	strongPaths []string
	// weakPaths match when the URL path merely contains the entry
	weakPaths []string
	// relHints are rel attribute tokens that identify the document type
	relHints []string
	// checklist patterns verify fetched document content during
	// search-fallback confirmation; two or more matches confirm
	checklist []*regexp.Regexp
}

var patternsByType = map[Type]typePatterns{
	TypeTerms: {
		canonical: []string{
			"terms of service",
			"terms of use",
			"terms and conditions",
			"terms & conditions",
			"conditions of use",
			"user agreement",
			"end user license agreement",
		},
		keywords: []string{
			"terms",
			"conditions",
			"eula",
			"legal terms",
			"nutzungsbedingungen",
		},
		strongPaths: []string{
			"/terms-of-service",
			"/terms-of-use",
			"/terms-and-conditions",
			"/termsofservice",
			"/legal/terms",
			"/terms",
			"/tos",
			"/eula",
			"/user-agreement",
		},
		weakPaths: []string{
			"terms",
			"tos",
			"conditions",
			"eula",
			"user-agreement",
		},
		relHints: []string{
			"terms",
			"tos",
			"terms-of-service",
			"license",
			"legal",
		},
		checklist: compilePatterns(
			`(?i)\bterms\s+(of\s+service|of\s+use|and\s+conditions)\b`,
			`(?i)\bby\s+(using|accessing).{0,60}you\s+agree\b`,
			`(?i)\b(binding|user)\s+agreement\b`,
			`(?i)\blimitation\s+of\s+liability\b`,
			`(?i)\bgoverning\s+law\b`,
			`(?i)\btermination\b`,
		),
	},
	TypePrivacy: {
		canonical: []string{
			"privacy policy",
			"privacy notice",
			"privacy statement",
			"data protection policy",
			"data policy",
		},
		keywords: []string{
			"privacy",
			"data protection",
			"personal data",
			"datenschutz",
			"privacidad",
			"confidentialite",
		},
		strongPaths: []string{
			"/privacy-policy",
			"/privacy-notice",
			"/privacypolicy",
			"/legal/privacy",
			"/privacy",
			"/data-protection",
			"/data-policy",
			"/datenschutz",
		},
		weakPaths: []string{
			"privacy",
			"data-protection",
			"data-policy",
			"datenschutz",
			"privacidad",
			"confidentialite",
		},
		relHints: []string{
			"privacy",
			"privacy-policy",
			"legal",
		},
		checklist: compilePatterns(
			`(?i)\bprivacy\s+(policy|notice|statement)\b`,
			`(?i)\bpersonal\s+(data|information)\b`,
			`(?i)\bwe\s+collect\b`,
			`(?i)\bthird[\s-]part(y|ies)\b`,
			`(?i)\b(gdpr|ccpa|data\s+protection)\b`,
			`(?i)\bcookies?\b`,
		),
	},
}

// hardNegativePathPatterns disqualify a candidate outright regardless of other
// signals. These cover site sections that frequently contain policy-looking
// words ("legal notice" breadcrumbs under /careers/, date-stamped blog posts)
// but are never the legal document itself.
var hardNegativePathPatterns = compilePatterns(
	`(?i)/careers?(/|$)`,
	`(?i)/jobs?(/|$)`,
	`(?i)/blog(/|$)`,
	`(?i)/news(/|$)`,
	`(?i)/press(/|$)`,
	`(?i)/investors?(/|$)`,
	`(?i)/events?(/|$)`,
	`(?i)/webinars?(/|$)`,
	`(?i)/case-stud(y|ies)(/|$)`,
	`(?i)/\d{4}/\d{2}(/|$)`,
)

// softNegativePathPatterns apply a strong penalty without disqualifying; these
// sections occasionally host real legal pages (for example /product/legal on
// smaller sites) so a very strong text signal can still win.
var softNegativePathPatterns = compilePatterns(
	`(?i)/products?(/|$)`,
	`(?i)/pricing(/|$)`,
	`(?i)/docs?(/|$)`,
	`(?i)/help(/|$)`,
	`(?i)/support(/|$)`,
	`(?i)/about(/|$)`,
)

// ugcPathPatterns match user-generated-content URLs (forum threads, comments,
// profiles) that accumulate policy keywords in discussion text.
var ugcPathPatterns = compilePatterns(
	`(?i)/forums?(/|$)`,
	`(?i)/community(/|$)`,
	`(?i)/threads?(/|$)`,
	`(?i)/topics?(/|$)`,
	`(?i)/posts?(/|$)`,
	`(?i)/comments?(/|$)`,
	`(?i)/profiles?(/|$)`,
	`(?i)/users?(/|$)`,
	`(?i)/members?(/|$)`,
	`(?i)/@[^/]+`,
)

// searchNegativePathPatterns penalize known non-policy business paths in
// search-engine results, where snippets often quote legal phrases.
var searchNegativePathPatterns = compilePatterns(
	`(?i)/careers?`,
	`(?i)/jobs?`,
	`(?i)/investors?`,
	`(?i)/press`,
	`(?i)/blog`,
)

// compilePatterns compiles regex patterns, panicking on invalid input
func compilePatterns(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}

	return compiled
}

// matchesAnyPattern returns true if input matches any compiled pattern
func matchesAnyPattern(patterns []*regexp.Regexp, input string) bool {
	for _, p := range patterns {
		if p.MatchString(input) {
			return true
		}
	}

	return false
}

// HardNegativePath reports whether the URL path matches a disqualifying
// section pattern. Exposed for the selector's final re-check.
func HardNegativePath(path string) bool {
	return matchesAnyPattern(hardNegativePathPatterns, path) ||
		matchesAnyPattern(ugcPathPatterns, path)
}

// ChecklistMatches counts how many canonical-term checklist patterns for the
// policy type appear in the document text. Used for content verification of
// search-fallback candidates.
func ChecklistMatches(text string, policyType Type) int {
	count := 0

	for _, p := range patternsByType[policyType].checklist {
		if p.MatchString(text) {
			count++
		}
	}

	return count
}

// oppositeType returns the other policy type, used for cross-type penalties.
func oppositeType(t Type) Type {
	if t == TypeTerms {
		return TypePrivacy
	}

	return TypeTerms
}
