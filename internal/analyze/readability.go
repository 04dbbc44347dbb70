package analyze

import (
	"math"
	"strings"
)

// Metrics holds the text-mining measurements for an extracted document.
type Metrics struct {
	// WordCount is the total number of word tokens
	WordCount int `json:"word_count"`
	// SentenceCount is the number of sentence boundaries found
	SentenceCount int `json:"sentence_count"`
	// SyllableCount is the estimated total syllables
	SyllableCount int `json:"syllable_count"`
	// UniqueWords is the distinct token count
	UniqueWords int `json:"unique_words"`
	// VocabularyRichness is UniqueWords / WordCount
	VocabularyRichness float64 `json:"vocabulary_richness"`
	// FleschReadingEase is the Flesch reading-ease score; lower is harder.
	// Legal documents typically land between 20 and 40.
	FleschReadingEase float64 `json:"flesch_reading_ease"`
	// FleschKincaidGrade is the US school-grade estimate
	FleschKincaidGrade float64 `json:"flesch_kincaid_grade"`
}

// Readability computes text-mining metrics over extracted plain text.
// Pure function; safe to run concurrently with other analyses of the
// same text.
func Readability(text string) Metrics {
	words := tokenize(text)
	if len(words) == 0 {
		return Metrics{}
	}

	unique := make(map[string]struct{}, len(words))
	syllables := 0

	for _, w := range words {
		unique[w] = struct{}{}
		syllables += countSyllables(w)
	}

	sentences := countSentences(text)

	wordsPerSentence := float64(len(words)) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(len(words))

	ease := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	grade := 0.39*wordsPerSentence + 11.8*syllablesPerWord - 15.59

	return Metrics{
		WordCount:          len(words),
		SentenceCount:      sentences,
		SyllableCount:      syllables,
		UniqueWords:        len(unique),
		VocabularyRichness: round2(float64(len(unique)) / float64(len(words))),
		FleschReadingEase:  round2(ease),
		FleschKincaidGrade: round2(grade),
	}
}

// countSentences counts terminator runs; a text without terminators is one
// sentence.
func countSentences(text string) int {
	count := 0
	inRun := false

	for _, r := range text {
		switch r {
		case '.', '!', '?':
			if !inRun {
				count++
				inRun = true
			}
		default:
			inRun = false
		}
	}

	if count == 0 {
		return 1
	}

	return count
}

// countSyllables estimates syllables by counting vowel groups, with the
// usual silent-e adjustment. Estimation error averages out over documents
// of policy length.
func countSyllables(word string) int {
	vowels := "aeiouy"
	count := 0
	prevVowel := false

	for _, r := range word {
		isVowel := strings.ContainsRune(vowels, r)
		if isVowel && !prevVowel {
			count++
		}

		prevVowel = isVowel
	}

	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}

	if count == 0 {
		count = 1
	}

	return count
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
