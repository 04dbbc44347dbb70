package fetch

import (
	"context"
	"fmt"
	"net/http"

	"github.com/projectdiscovery/httpx/common/httpx"
	"github.com/rs/zerolog/log"
)

// HTTPXFetcher implements StaticFetcher using projectdiscovery/httpx
type HTTPXFetcher struct {
	options *Options
}

// NewHTTPXFetcher creates a static fetcher with the given options
func NewHTTPXFetcher(opts ...Option) *HTTPXFetcher {
	return &HTTPXFetcher{options: buildOptions(opts...)}
}

// FetchStatic GETs the URL following redirects and returns the document body,
// final URL, and status code. Challenge pages surface as ErrBlocked so the
// caller can escalate to a rendered fetch instead of scoring a CAPTCHA shell.
func (f *HTTPXFetcher) FetchStatic(ctx context.Context, targetURL string) (*Result, error) {
	client, err := f.newClient()
	if err != nil {
		return nil, fmt.Errorf("initializing httpx client: %w", err)
	}

	req, err := client.NewRequestWithContext(ctx, "GET", targetURL)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrFetchFailed, err)
	}

	resp, err := client.Do(req, httpx.UnsafeOptions{})
	if err != nil {
		log.Debug().Err(err).Str("url", targetURL).Msg("static fetch failed")
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d for %s", ErrBadStatus, resp.StatusCode, targetURL)
	}

	html := string(resp.Data)

	if blocked, vendor := IsBlocked(html); blocked {
		log.Info().Str("url", targetURL).Str("vendor", vendor).Msg("static fetch hit bot protection")
		return nil, fmt.Errorf("%w: %s", ErrBlocked, vendor)
	}

	finalURL := targetURL
	if resp.HasChain() {
		if last := resp.GetChainLastURL(); last != "" {
			finalURL = last
		}
	}

	return &Result{
		HTML:       html,
		FinalURL:   finalURL,
		StatusCode: resp.StatusCode,
	}, nil
}

// newClient creates a configured httpx client
func (f *HTTPXFetcher) newClient() (*httpx.HTTPX, error) {
	return httpx.New(&httpx.Options{
		Timeout:                   f.options.fetchTimeout,
		FollowRedirects:           true,
		MaxRedirects:              f.options.maxRedirects,
		MaxResponseBodySizeToRead: f.options.maxBodySize,
		DefaultUserAgent:          f.options.userAgent,
	})
}
