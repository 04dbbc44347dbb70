package policy

import "strings"

// Signal weights for the additive scorer. These are empirically tuned design
// constants, deliberately exposed at package level rather than buried in the
// scoring function. The ordering between them is load-bearing: exact text
// beats phrase, phrase beats keyword, strong path beats weak path, and the
// positional and domain bonuses alone must stay below MinSelectionScore so a
// same-site footer link with no type signal can never qualify.
const (
	// ScoreExactText applies when the anchor text equals a canonical phrase
	ScoreExactText = 95.0
	// ScorePhraseText applies when the text contains a canonical phrase
	ScorePhraseText = 80.0
	// ScoreKeywordText applies when the text contains a bare keyword
	ScoreKeywordText = 60.0
	// ScoreStrongPath applies when the path equals or ends with an indicator
	ScoreStrongPath = 90.0
	// ScoreWeakPath applies when the path merely contains an indicator
	ScoreWeakPath = 40.0
	// ScoreRelHint applies when the rel attribute carries a type token
	ScoreRelHint = 85.0
	// ScoreAuxText applies when only the title or aria-label names the type;
	// covers icon-only anchors whose visible text carries no signal
	ScoreAuxText = 45.0
	// ScoreFooterBonus rewards anchors in footer-classified containers
	ScoreFooterBonus = 15.0
	// ScoreSameSiteBonus rewards anchors on the page's registrable domain
	ScoreSameSiteBonus = 30.0

	// PenaltyWrongType applies per signal family naming the opposite type
	PenaltyWrongType = 12.0
	// PenaltyDeepPath applies per path segment beyond MaxCleanPathSegments
	PenaltyDeepPath = 15.0
	// PenaltyDigitPath applies when a path segment looks like a numeric id
	PenaltyDigitPath = 25.0
	// PenaltyUGC near-disqualifies forum/comment/profile style URLs
	PenaltyUGC = 100.0
	// PenaltySoftNegative applies to sections that rarely host legal pages
	PenaltySoftNegative = 50.0

	// MaxCleanPathSegments is the deepest path that avoids the depth penalty
	MaxCleanPathSegments = 4

	// ScoreDisqualified marks candidates matching a hard-negative pattern
	ScoreDisqualified = -1000.0

	// MinSelectionScore is the admission threshold for the selector
	MinSelectionScore = 50.0
)

// Score computes the confidence that a candidate is the policy document the
// caller seeks. It is deterministic and does no I/O. Within each signal family
// only the strongest match contributes, so a candidate whose text both equals
// a canonical phrase and contains a keyword counts the exact match once.
func Score(c Candidate, policyType Type) float64 {
	if matchesAnyPattern(hardNegativePathPatterns, c.Path) {
		return ScoreDisqualified
	}

	pats := patternsByType[policyType]
	opposite := patternsByType[oppositeType(policyType)]

	score := 0.0

	textSignal := textScore(c.Text, pats)
	score += textSignal

	if textSignal == 0 && (auxMatches(c.TitleAttr, pats) || auxMatches(c.AriaLabel, pats)) {
		score += ScoreAuxText
	}

	pathSignal := pathScore(c.Path, pats)
	score += pathSignal

	if relHintMatch(c.RelTokens, pats.relHints) {
		score += ScoreRelHint
	}

	if c.Region == RegionFooter {
		score += ScoreFooterBonus
	}

	if c.SameSite {
		score += ScoreSameSiteBonus
	}

	// cross-type signals: a link plainly about the other document type must
	// rank below the real target even when it shares footer placement
	if textSignal == 0 && textScore(c.Text, opposite) > 0 {
		score -= PenaltyWrongType
	}

	if pathSignal == 0 && pathScore(c.Path, opposite) > 0 {
		score -= PenaltyWrongType
	}

	if c.PathSegmentCount > MaxCleanPathSegments {
		score -= PenaltyDeepPath * float64(c.PathSegmentCount-MaxCleanPathSegments)
	}

	if c.PathHasDigits {
		score -= PenaltyDigitPath
	}

	if matchesAnyPattern(ugcPathPatterns, c.Path) {
		score -= PenaltyUGC
	}

	if matchesAnyPattern(softNegativePathPatterns, c.Path) {
		score -= PenaltySoftNegative
	}

	return score
}

// textScore returns the strongest text signal: exact canonical match, then
// phrase containment, then bare keyword containment.
func textScore(text string, pats typePatterns) float64 {
	if text == "" {
		return 0
	}

	for _, phrase := range pats.canonical {
		if text == phrase {
			return ScoreExactText
		}
	}

	for _, phrase := range pats.canonical {
		if strings.Contains(text, phrase) {
			return ScorePhraseText
		}
	}

	for _, kw := range pats.keywords {
		if strings.Contains(text, kw) {
			return ScoreKeywordText
		}
	}

	return 0
}

// pathScore returns the strongest URL-path signal for the type
func pathScore(path string, pats typePatterns) float64 {
	trimmed := strings.TrimRight(path, "/")

	for _, p := range pats.strongPaths {
		if trimmed == p || strings.HasSuffix(trimmed, p) {
			return ScoreStrongPath
		}
	}

	for _, p := range pats.weakPaths {
		if strings.Contains(path, p) {
			return ScoreWeakPath
		}
	}

	return 0
}

// auxMatches checks title/aria-label attributes for canonical or keyword text
func auxMatches(attr string, pats typePatterns) bool {
	if attr == "" {
		return false
	}

	for _, phrase := range pats.canonical {
		if strings.Contains(attr, phrase) {
			return true
		}
	}

	for _, kw := range pats.keywords {
		if strings.Contains(attr, kw) {
			return true
		}
	}

	return false
}

// relHintMatch reports whether any rel token is a known type hint
func relHintMatch(tokens, hints []string) bool {
	for _, tok := range tokens {
		for _, h := range hints {
			if tok == h {
				return true
			}
		}
	}

	return false
}
