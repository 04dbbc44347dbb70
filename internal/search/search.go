// Package search queries external search engines for policy pages when a
// site's own DOM yields nothing usable.
package search

import (
	"context"
	"fmt"

	"github.com/poliscan/poliscan/internal/policy"
)

// Result is a single search engine hit.
type Result struct {
	// Title is the result's display title
	Title string
	// URL is the destination URL, redirect wrappers unwrapped
	URL string
	// Snippet is the result's description text
	Snippet string
}

// Provider is a pluggable search engine backend.
type Provider interface {
	// Search runs the query and returns parsed results
	Search(ctx context.Context, query string) ([]Result, error)
	// Name identifies the engine in logs and method tags
	Name() string
}

// BuildQuery composes the site-restricted query for a policy lookup. The
// negative terms keep job listings and newsroom pages out of the top results,
// where they otherwise rank well for "terms" and "privacy".
func BuildQuery(domain string, policyType policy.Type) string {
	phrase := `"terms of service" OR "terms and conditions"`
	if policyType == policy.TypePrivacy {
		phrase = `"privacy policy" OR "privacy notice"`
	}

	return fmt.Sprintf(`site:%s %s -careers -jobs`, domain, phrase)
}
