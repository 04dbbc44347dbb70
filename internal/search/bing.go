package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/poliscan/poliscan/internal/fetch"
)

// bingEndpoint is the standard Bing SERP
const bingEndpoint = "https://www.bing.com/search"

// Bing implements Provider by scraping the Bing results page. It serves as
// the second, independent engine for cross-checking fallback results.
type Bing struct {
	fetcher fetch.StaticFetcher
}

// NewBing creates a Bing provider using the given fetcher
func NewBing(fetcher fetch.StaticFetcher) *Bing {
	return &Bing{fetcher: fetcher}
}

// Name returns the provider name
func (b *Bing) Name() string {
	return "bing"
}

// Search runs the query and parses the organic result blocks.
func (b *Bing) Search(ctx context.Context, query string) ([]Result, error) {
	searchURL := bingEndpoint + "?q=" + url.QueryEscape(query)

	resp, err := b.fetcher.FetchStatic(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	results := parseBingHTML(resp.HTML)
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	log.Debug().Int("results", len(results)).Str("query", query).Msg("bing search complete")

	return results, nil
}

// parseBingHTML extracts organic results: li.b_algo blocks with an h2 > a
// title link and a p caption.
func parseBingHTML(html string) []Result {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var results []Result

	doc.Find("li.b_algo").Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find("h2 a").First()

		href := link.AttrOr("href", "")
		if !strings.HasPrefix(href, "http") {
			return
		}

		results = append(results, Result{
			Title:   strings.TrimSpace(link.Text()),
			URL:     href,
			Snippet: strings.TrimSpace(sel.Find("p").First().Text()),
		})
	})

	return results
}
