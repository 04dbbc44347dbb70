// Package discover runs the cascading policy-page discovery chain: a static
// DOM scan, a rendered scan, a scroll-triggered rescan, and a search-engine
// fallback, in that order, stopping at the first stage that produces an
// admissible candidate.
package discover

import (
	"time"

	"github.com/poliscan/poliscan/internal/fetch"
	"github.com/poliscan/poliscan/internal/policy"
	"github.com/poliscan/poliscan/internal/search"
)

// Stage names the discovery methods in chain order.
type Stage string

const (
	// StageStatic is the plain-HTTP fetch and DOM scan
	StageStatic Stage = "static"
	// StageRendered is the headless-browser scan with scripts executed
	StageRendered Stage = "rendered"
	// StageScroll is the progressive-scroll rescan for lazy-loaded footers
	StageScroll Stage = "scroll"
	// StageSearch is the external search-engine fallback
	StageSearch Stage = "search"
)

// Method tags reported in outcomes. Free-form observability strings; callers
// must never branch on them.
const (
	MethodStatic          = "static"
	MethodRendered        = "rendered"
	MethodScroll          = "scroll"
	MethodSearchConfirmed = "search_confirmed"
	MethodBestEffort      = "best_effort_search"
	// corroboratedSuffix marks a method confirmed by an earlier stage's
	// agreeing candidate
	corroboratedSuffix = "+corroborated"
)

const (
	// minChecklistMatches is how many canonical-term patterns a fetched
	// document must contain to count as content-verified
	minChecklistMatches = 2
	// maxSearchResultsScored caps how many hits per engine are scored
	maxSearchResultsScored = 10
	// defaultStageTimeout bounds each discovery stage independently
	defaultStageTimeout = 45 * time.Second
)

// defaultScrollCheckpoints are the page-height fractions visited during the
// scroll stage. Values skew toward the bottom because legal links live there.
var defaultScrollCheckpoints = []float64{0.3, 0.5, 0.7, 0.8, 0.9}

// StageResult records one stage attempt for observability.
type StageResult struct {
	// Stage is the discovery method attempted
	Stage Stage `json:"stage"`
	// Found is true when the stage produced an admissible candidate
	Found bool `json:"found"`
	// URL is the stage's winning URL when found
	URL string `json:"url,omitempty"`
	// Score is the winning score when found
	Score float64 `json:"score,omitempty"`
	// Error describes the stage failure when not found
	Error string `json:"error,omitempty"`
}

// Outcome is the structured result of a discovery run. Discover always
// returns a populated Outcome; there is no error return and no nil result.
type Outcome struct {
	// InputURL is the caller's original input
	InputURL string `json:"input_url"`
	// PolicyType is the document type sought
	PolicyType policy.Type `json:"policy_type"`
	// Domain is the registrable domain discovery anchored on
	Domain string `json:"domain,omitempty"`
	// ResolvedURL is the discovered policy URL when Success
	ResolvedURL string `json:"resolved_policy_url,omitempty"`
	// Success is true for confirmed and best-effort results alike
	Success bool `json:"success"`
	// Confirmed is true when two independent methods agreed or content
	// verification passed
	Confirmed bool `json:"confirmed"`
	// Score is the winning candidate's score
	Score float64 `json:"score,omitempty"`
	// Method tags the stage that produced the result
	Method string `json:"method_used,omitempty"`
	// Message is a human-readable account of the outcome
	Message string `json:"message"`
	// Stages lists every stage attempt in order
	Stages []StageResult `json:"stages,omitempty"`
}

// Orchestrator coordinates the discovery chain. Stages share no mutable
// state between requests; the browser pool inside the Renderer is the only
// process-wide resource.
type Orchestrator struct {
	static    fetch.StaticFetcher
	renderer  fetch.Renderer
	providers []search.Provider
	options   *Options
}

// Options configures the discovery chain
type Options struct {
	stageTimeout      time.Duration
	scrollCheckpoints []float64
}

// Option is a functional option for configuring the orchestrator
type Option func(*Options)

// WithStageTimeout bounds each individual discovery stage
func WithStageTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.stageTimeout = d
		}
	}
}

// WithScrollCheckpoints overrides the scroll-stage page-height fractions
func WithScrollCheckpoints(checkpoints []float64) Option {
	return func(o *Options) {
		if len(checkpoints) > 0 {
			o.scrollCheckpoints = checkpoints
		}
	}
}

// New creates an Orchestrator. The renderer and providers may be nil/empty;
// their stages then report as failed and the chain continues past them.
func New(static fetch.StaticFetcher, renderer fetch.Renderer, providers []search.Provider, opts ...Option) *Orchestrator {
	options := &Options{
		stageTimeout:      defaultStageTimeout,
		scrollCheckpoints: defaultScrollCheckpoints,
	}

	for _, opt := range opts {
		opt(options)
	}

	return &Orchestrator{
		static:    static,
		renderer:  renderer,
		providers: providers,
		options:   options,
	}
}
