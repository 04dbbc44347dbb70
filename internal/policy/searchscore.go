package policy

import (
	"net/url"
	"strings"
)

// Search-result scoring weights. Snippets quote legal boilerplate freely
// ("by using this site you agree...") so the URL path carries more weight
// here than anchor text does in DOM scoring.
const (
	// ScoreSearchStrongPath applies when the result path ends with an indicator
	ScoreSearchStrongPath = 70.0
	// ScoreSearchWeakPath applies when the path contains an indicator
	ScoreSearchWeakPath = 30.0
	// ScoreSearchTitle applies when the result title names the document
	ScoreSearchTitle = 50.0
	// ScoreSearchSnippet applies when only the snippet names the document
	ScoreSearchSnippet = 20.0
	// ScoreSearchSameSite applies when the result stays on the queried domain
	ScoreSearchSameSite = 25.0
	// PenaltySearchNegative applies to known non-policy business sections
	PenaltySearchNegative = 60.0
)

// ScoreSearchResult scores an external search engine hit for the policy type.
// The signal shape mirrors Score but swaps anchor metadata for title/snippet,
// since search results carry no DOM context.
func ScoreSearchResult(resultURL, title, snippet, baseDomain string, policyType Type) float64 {
	u, err := url.Parse(resultURL)
	if err != nil || u.Hostname() == "" {
		return 0
	}

	path := strings.ToLower(u.Path)
	if matchesAnyPattern(hardNegativePathPatterns, path) {
		return ScoreDisqualified
	}

	pats := patternsByType[policyType]
	score := 0.0

	score += searchPathScore(path, pats)

	title = strings.ToLower(title)
	snippet = strings.ToLower(snippet)

	switch {
	case containsAny(title, pats.canonical) || containsAny(title, pats.keywords):
		score += ScoreSearchTitle
	case containsAny(snippet, pats.canonical):
		score += ScoreSearchSnippet
	}

	if RegistrableDomain(u.Hostname()) == RegistrableDomain(baseDomain) {
		score += ScoreSearchSameSite
	}

	if matchesAnyPattern(searchNegativePathPatterns, path) {
		score -= PenaltySearchNegative
	}

	if matchesAnyPattern(ugcPathPatterns, path) {
		score -= PenaltyUGC
	}

	return score
}

// searchPathScore is the URL-path signal for search hits, scaled down from
// the DOM weights so a path match alone still needs title corroboration
// or same-site placement to clear the selection threshold.
func searchPathScore(path string, pats typePatterns) float64 {
	trimmed := strings.TrimRight(path, "/")

	for _, p := range pats.strongPaths {
		if trimmed == p || strings.HasSuffix(trimmed, p) {
			return ScoreSearchStrongPath
		}
	}

	for _, p := range pats.weakPaths {
		if strings.Contains(path, p) {
			return ScoreSearchWeakPath
		}
	}

	return 0
}
