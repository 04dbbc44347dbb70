package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

const (
	// renderSettleDelay lets late-running scripts inject footer content
	// before the DOM is serialized
	renderSettleDelay = 2 * time.Second
	// scrollSettleDelay lets lazy loaders react to each scroll checkpoint
	scrollSettleDelay = 750 * time.Millisecond
	// challengeWait is the extra settle time granted when the first snapshot
	// looks like an interstitial challenge that may clear on its own
	challengeWait = 5 * time.Second
)

// stealthScript masks the usual headless-automation fingerprints so
// challenge vendors serve the real page instead of an interstitial.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
window.chrome = { runtime: {}, loadTimes: function() {}, csi: function() {}, app: {} };
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
Object.defineProperty(navigator, 'plugins', {
	get: () => [
		{ name: 'Chrome PDF Plugin', filename: 'internal-pdf-viewer' },
		{ name: 'Chrome PDF Viewer', filename: 'mhjfbmdgcfjbbpaeojofohoefgiehjai' },
	],
});
const originalQuery = window.navigator.permissions.query;
window.navigator.permissions.query = (parameters) => (
	parameters.name === 'notifications' ?
		Promise.resolve({ state: Notification.permission }) :
		originalQuery(parameters)
);
`

// Browser is a process-wide pool of headless Chrome pages implementing
// Renderer. One allocator is shared by all fetches; a semaphore caps how many
// pages exist at once. Each fetch gets its own browser context, torn down on
// every exit path, so no state leaks between discoveries.
type Browser struct {
	options *Options

	mu          sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc
	slots       chan struct{}
}

// NewBrowser creates an unstarted browser pool
func NewBrowser(opts ...Option) *Browser {
	return &Browser{options: buildOptions(opts...)}
}

// Start launches the shared Chrome allocator. Call once per process.
func (b *Browser) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.allocCtx != nil {
		return nil
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("exclude-switches", "enable-automation"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-service-autorun", true),
		chromedp.Flag("password-store", "basic"),
		chromedp.Flag("use-mock-keychain", true),
		chromedp.Flag("headless", "new"),
		chromedp.UserAgent(b.options.userAgent),
		chromedp.WindowSize(1920, 1080),
	}

	if b.options.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(b.options.chromePath))
	}

	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), allocOpts...)
	b.slots = make(chan struct{}, b.options.browserSlots)

	log.Info().Int("slots", b.options.browserSlots).Msg("browser pool started")

	return nil
}

// Stop tears down the allocator and every page derived from it
func (b *Browser) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.allocCancel != nil {
		b.allocCancel()
		b.allocCtx = nil
		b.allocCancel = nil
	}

	log.Info().Msg("browser pool stopped")
}

// acquire reserves a page slot, honoring caller cancellation
func (b *Browser) acquire(ctx context.Context) (release func(), err error) {
	b.mu.Lock()
	slots := b.slots
	started := b.allocCtx != nil
	b.mu.Unlock()

	if !started {
		return nil, ErrBrowserNotStarted
	}

	select {
	case slots <- struct{}{}:
		return func() { <-slots }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// newPage derives a fresh browser context with the render timeout applied.
// The returned cancel funcs must all be called; they are returned innermost
// first so a single defer chain tears the page down cleanly.
func (b *Browser) newPage(ctx context.Context) (context.Context, context.CancelFunc) {
	b.mu.Lock()
	allocCtx := b.allocCtx
	b.mu.Unlock()

	timeoutCtx, timeoutCancel := context.WithTimeout(allocCtx, b.options.renderTimeout)
	pageCtx, pageCancel := chromedp.NewContext(timeoutCtx)

	// propagate caller cancellation into the page context
	stop := context.AfterFunc(ctx, pageCancel)

	cancel := func() {
		stop()
		pageCancel()
		timeoutCancel()
	}

	return pageCtx, cancel
}

// FetchRendered navigates to the URL in a headless page and returns the DOM
// after scripts have run. Challenge pages get one extended wait to clear
// before the fetch is reported as blocked.
func (b *Browser) FetchRendered(ctx context.Context, targetURL string) (*Result, error) {
	release, err := b.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	pageCtx, cancel := b.newPage(ctx)
	defer cancel()

	var html, finalURL string

	err = chromedp.Run(pageCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(renderSettleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&finalURL),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: rendering %s: %v", ErrFetchFailed, targetURL, err)
	}

	if blocked, vendor := IsBlocked(html); blocked {
		log.Info().Str("url", targetURL).Str("vendor", vendor).Msg("challenge page detected, waiting for it to clear")

		err = chromedp.Run(pageCtx,
			chromedp.Sleep(challengeWait),
			chromedp.OuterHTML("html", &html, chromedp.ByQuery),
			chromedp.Location(&finalURL),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: rendering %s: %v", ErrFetchFailed, targetURL, err)
		}

		if blocked, vendor = IsBlocked(html); blocked {
			return nil, fmt.Errorf("%w: %s", ErrBlocked, vendor)
		}
	}

	return &Result{HTML: html, FinalURL: finalURL}, nil
}

// FetchScrolled navigates to the URL, then scrolls to each checkpoint
// fraction of page height, snapshotting the DOM after each stop. Sites that
// lazy-render their footer only materialize legal links once the viewport
// approaches the bottom.
func (b *Browser) FetchScrolled(ctx context.Context, targetURL string, checkpoints []float64) (*ScrollResult, error) {
	release, err := b.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	pageCtx, cancel := b.newPage(ctx)
	defer cancel()

	var finalURL string

	err = chromedp.Run(pageCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(renderSettleDelay),
		chromedp.Location(&finalURL),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: rendering %s: %v", ErrFetchFailed, targetURL, err)
	}

	result := &ScrollResult{FinalURL: finalURL}

	for _, fraction := range checkpoints {
		scrollJS := fmt.Sprintf(
			`window.scrollTo({top: document.body.scrollHeight * %f, behavior: 'instant'});`,
			fraction,
		)

		var snapshot string

		err = chromedp.Run(pageCtx,
			chromedp.Evaluate(scrollJS, nil),
			chromedp.Sleep(scrollSettleDelay),
			chromedp.OuterHTML("html", &snapshot, chromedp.ByQuery),
		)
		if err != nil {
			// a failed checkpoint doesn't void earlier snapshots
			log.Warn().Err(err).Float64("checkpoint", fraction).Str("url", targetURL).Msg("scroll checkpoint failed")
			break
		}

		result.Snapshots = append(result.Snapshots, snapshot)
	}

	if len(result.Snapshots) == 0 && err != nil {
		return nil, fmt.Errorf("%w: scrolling %s: %v", ErrFetchFailed, targetURL, err)
	}

	return result, nil
}
