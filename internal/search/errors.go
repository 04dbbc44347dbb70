package search

import "errors"

var (
	// ErrSearchFailed is returned when the engine request could not complete
	ErrSearchFailed = errors.New("search request failed")
	// ErrNoResults is returned when the engine returned an empty result page
	ErrNoResults = errors.New("no search results")
)
