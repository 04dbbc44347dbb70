package discover

import "errors"

var (
	// ErrNoCandidate signals a scan that completed without an admissible result
	ErrNoCandidate = errors.New("no candidate above threshold")
	// ErrStagePanic wraps a recovered panic from inside a discovery stage
	ErrStagePanic = errors.New("stage panicked")
	// ErrRendererUnavailable signals that no browser renderer is configured
	ErrRendererUnavailable = errors.New("renderer unavailable")
	// ErrNoSearchProviders signals that no search engines are configured
	ErrNoSearchProviders = errors.New("no search providers configured")
)
