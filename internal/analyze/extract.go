// Package analyze turns fetched policy documents into plain text and
// side-effect-free text metrics.
package analyze

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/poliscan/poliscan/internal/fetch"
)

// binaryScanLimit is how many leading bytes are inspected for binary content
const binaryScanLimit = 1024

// strippedSelectors are removed before text extraction: non-content chrome
// that would pollute word counts with menu labels and script source.
var strippedSelectors = []string{
	"script", "style", "noscript", "iframe", "svg",
	"nav", "header", "aside",
}

// ExtractText converts a policy page's HTML into readable plain text.
// Challenge pages, binary payloads, and empty documents return typed errors
// so the API layer can report them distinctly.
func ExtractText(html string) (string, error) {
	if looksBinary(html) {
		return "", ErrBinaryContent
	}

	if blocked, _ := fetch.IsBlocked(html); blocked {
		return "", ErrBotVerification
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", ErrEmptyDocument
	}

	for _, sel := range strippedSelectors {
		doc.Find(sel).Remove()
	}

	// block-level elements become line breaks so headings and paragraphs
	// don't run together in the extracted text
	var b strings.Builder

	doc.Find("p, h1, h2, h3, h4, h5, h6, li, td, div, section, article").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Filter("p, div, section, article, ul, ol, table").Length() > 0 {
			return
		}

		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}

		b.WriteString(text)
		b.WriteString("\n")
	})

	text := normalizeWhitespace(b.String())

	if text == "" {
		// fall back to the whole body for pages without block structure
		text = normalizeWhitespace(doc.Find("body").Text())
	}

	if text == "" {
		return "", ErrEmptyDocument
	}

	return text, nil
}

// looksBinary reports whether the content is not plausibly text
func looksBinary(content string) bool {
	if content == "" {
		return false
	}

	sample := content
	if len(sample) > binaryScanLimit {
		sample = sample[:binaryScanLimit]
	}

	nonPrintable := 0

	for _, r := range sample {
		if r == utf8.RuneError || (unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t') {
			nonPrintable++
		}
	}

	return nonPrintable*10 > len(sample)
}

// normalizeWhitespace collapses runs of spaces and blank lines
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")

	var out []string

	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}

	return strings.Join(out, "\n")
}
