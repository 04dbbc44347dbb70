package api

import "errors"

var (
	// ErrInvalidRequestBody is returned when the request body cannot be decoded
	ErrInvalidRequestBody = errors.New("invalid request body")
	// ErrURLRequired is returned when a discovery or extract request omits the url field
	ErrURLRequired = errors.New("url required")
	// ErrMultipleJSONObjects is returned when the request body contains more than one JSON object
	ErrMultipleJSONObjects = errors.New("request body must contain a single JSON object")
	// ErrStoreNotConfigured is returned when a documents endpoint is hit without a store
	ErrStoreNotConfigured = errors.New("document store not configured")
	// ErrFetcherNotConfigured is returned when extraction is requested without a fetcher
	ErrFetcherNotConfigured = errors.New("page fetcher not configured")
	// ErrSearchTermRequired is returned when the documents search endpoint omits the q parameter
	ErrSearchTermRequired = errors.New("search term required")
)
