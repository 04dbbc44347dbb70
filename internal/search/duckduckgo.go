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

// duckduckgoEndpoint is the HTML (no-JS) SERP, which is stable to scrape
const duckduckgoEndpoint = "https://html.duckduckgo.com/html/"

// DuckDuckGo implements Provider against the DuckDuckGo HTML interface.
type DuckDuckGo struct {
	fetcher fetch.StaticFetcher
}

// NewDuckDuckGo creates a DuckDuckGo provider using the given fetcher
func NewDuckDuckGo(fetcher fetch.StaticFetcher) *DuckDuckGo {
	return &DuckDuckGo{fetcher: fetcher}
}

// Name returns the provider name
func (d *DuckDuckGo) Name() string {
	return "duckduckgo"
}

// Search runs the query against the HTML SERP and parses result anchors.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]Result, error) {
	searchURL := duckduckgoEndpoint + "?q=" + url.QueryEscape(query)

	resp, err := d.fetcher.FetchStatic(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	results := parseDuckDuckGoHTML(resp.HTML)
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	log.Debug().Int("results", len(results)).Str("query", query).Msg("duckduckgo search complete")

	return results, nil
}

// parseDuckDuckGoHTML extracts results from the SERP markup. Each hit is a
// div.result holding a.result__a (title + wrapped link) and a.result__snippet.
func parseDuckDuckGoHTML(html string) []Result {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var results []Result

	doc.Find("div.result").Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find("a.result__a").First()

		href := unwrapRedirect(link.AttrOr("href", ""))
		if href == "" || !strings.HasPrefix(href, "http") {
			return
		}

		results = append(results, Result{
			Title:   strings.TrimSpace(link.Text()),
			URL:     href,
			Snippet: strings.TrimSpace(sel.Find("a.result__snippet").First().Text()),
		})
	})

	return results
}

// unwrapRedirect resolves DuckDuckGo's uddg redirect wrapper to the real URL
func unwrapRedirect(href string) string {
	if !strings.Contains(href, "uddg=") {
		return href
	}

	u, err := url.Parse(href)
	if err != nil {
		return href
	}

	if target := u.Query().Get("uddg"); target != "" {
		return target
	}

	return href
}
