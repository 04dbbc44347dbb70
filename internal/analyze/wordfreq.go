package analyze

import (
	"sort"
	"strings"
	"unicode"
)

// defaultTopWords is how many entries Frequencies reports by default
const defaultTopWords = 20

// stopwords are filtered from frequency counts; high-frequency function
// words carry no signal about a document's subject matter.
var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "all": {},
	"also": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "because": {}, "been": {}, "before": {}, "being": {}, "below": {},
	"between": {}, "both": {}, "but": {}, "by": {}, "can": {}, "could": {},
	"did": {}, "do": {}, "does": {}, "doing": {}, "down": {}, "during": {},
	"each": {}, "few": {}, "for": {}, "from": {}, "further": {}, "had": {},
	"has": {}, "have": {}, "having": {}, "he": {}, "her": {}, "here": {},
	"hers": {}, "him": {}, "his": {}, "how": {}, "i": {}, "if": {}, "in": {},
	"into": {}, "is": {}, "it": {}, "its": {}, "itself": {}, "just": {},
	"may": {}, "me": {}, "more": {}, "most": {}, "my": {}, "no": {}, "nor": {},
	"not": {}, "now": {}, "of": {}, "off": {}, "on": {}, "once": {},
	"only": {}, "or": {}, "other": {}, "our": {}, "ours": {}, "out": {},
	"over": {}, "own": {}, "s": {}, "same": {}, "shall": {}, "she": {},
	"should": {}, "so": {}, "some": {}, "such": {}, "t": {}, "than": {},
	"that": {}, "the": {}, "their": {}, "theirs": {}, "them": {}, "then": {},
	"there": {}, "these": {}, "they": {}, "this": {}, "those": {},
	"through": {}, "to": {}, "too": {}, "under": {}, "until": {}, "up": {},
	"us": {}, "very": {}, "was": {}, "we": {}, "were": {}, "what": {},
	"when": {}, "where": {}, "which": {}, "while": {}, "who": {}, "whom": {},
	"why": {}, "will": {}, "with": {}, "would": {}, "you": {}, "your": {},
	"yours": {},
}

// WordCount is a single entry in a frequency report.
type WordCount struct {
	// Word is the lower-cased token
	Word string `json:"word"`
	// Count is its number of occurrences
	Count int `json:"count"`
}

// Frequencies tokenizes the text, filters stopwords and single characters,
// and returns the topN most frequent words, most frequent first. Ties break
// alphabetically so output is deterministic. Pure function.
func Frequencies(text string, topN int) []WordCount {
	if topN <= 0 {
		topN = defaultTopWords
	}

	counts := make(map[string]int)

	for _, token := range tokenize(text) {
		if len(token) < 2 {
			continue
		}

		if _, stop := stopwords[token]; stop {
			continue
		}

		counts[token]++
	}

	ranked := make([]WordCount, 0, len(counts))
	for word, count := range counts {
		ranked = append(ranked, WordCount{Word: word, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}

		return ranked[i].Word < ranked[j].Word
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	return ranked
}

// tokenize lower-cases and splits on any non-letter rune
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
