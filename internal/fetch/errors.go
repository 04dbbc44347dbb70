package fetch

import "errors"

var (
	// ErrFetchFailed is returned when a request could not complete
	ErrFetchFailed = errors.New("fetch failed")
	// ErrBadStatus is returned for non-success HTTP responses
	ErrBadStatus = errors.New("unexpected http status")
	// ErrBlocked is returned when the response is a bot-challenge page
	ErrBlocked = errors.New("blocked by bot protection")
	// ErrBrowserNotStarted is returned when a render is requested before Start
	ErrBrowserNotStarted = errors.New("browser pool not started")
)
