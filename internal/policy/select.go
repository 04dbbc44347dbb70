package policy

import (
	"net/url"
	"sort"

	"github.com/rs/zerolog/log"
)

// ScoredResult is the selector's winning candidate. It lives only for the
// duration of a discovery call; persistence happens further up the stack.
type ScoredResult struct {
	// URL is the selected candidate's absolute URL
	URL string `json:"url"`
	// Score is the winning confidence score
	Score float64 `json:"score"`
	// Method names the discovery stage that produced the result
	Method string `json:"method"`
	// Confirmed is true when at least two independent methods agreed
	Confirmed bool `json:"confirmed"`
}

// Select ranks scored candidates and returns the best admissible one, or nil
// when nothing clears MinSelectionScore. Ranking is a stable descending sort
// so ties resolve to document order and results stay reproducible.
//
// Same-site candidates aren't only boosted during scoring: when any exist,
// the selection pool is restricted to them outright, so a third-party link
// can win only on pages that offer nothing on the site's own domain.
func Select(candidates []Candidate, policyType Type) *ScoredResult {
	if len(candidates) == 0 {
		return nil
	}

	pool := make([]Candidate, 0, len(candidates))

	for _, c := range candidates {
		if c.SameSite {
			pool = append(pool, c)
		}
	}

	if len(pool) == 0 {
		pool = append(pool, candidates...)
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Score > pool[j].Score
	})

	top := pool[0]
	if top.Score < MinSelectionScore {
		return nil
	}

	// final path re-check: scoring already disqualifies hard negatives, but a
	// future weight change must not be able to resurrect a /careers/ link
	if path := resolvedPath(top.AbsoluteURL); HardNegativePath(path) {
		log.Debug().
			Str("url", top.AbsoluteURL).
			Float64("score", top.Score).
			Msg("top candidate rejected by negative path re-check")

		return nil
	}

	return &ScoredResult{
		URL:   top.AbsoluteURL,
		Score: top.Score,
	}
}

// ScoreAndSelect scores every candidate for the policy type and selects the
// winner in one pass. This is the entry point discovery stages use.
func ScoreAndSelect(candidates []Candidate, policyType Type) *ScoredResult {
	for i := range candidates {
		candidates[i].Score = Score(candidates[i], policyType)
	}

	return Select(candidates, policyType)
}

// resolvedPath extracts the path component from an absolute URL
func resolvedPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	return u.Path
}
