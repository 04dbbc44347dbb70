package discover

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/poliscan/poliscan/internal/policy"
	"github.com/poliscan/poliscan/internal/search"
)

// stageOutcome is a stage's internal result: a selection when found, plus the
// stage's top candidate URL even when nothing cleared the threshold. The top
// candidate feeds cross-method corroboration for later stages.
type stageOutcome struct {
	result       *policy.ScoredResult
	topCandidate string
	err          error
}

// Discover runs the fallback chain for one URL and policy type. It never
// returns an error and never returns nil: every failure mode, including
// stage panics, degrades into the returned Outcome. The caller is a
// synchronous request handler with no recovery path beyond reading Message.
func (o *Orchestrator) Discover(ctx context.Context, rawURL string, policyType policy.Type) *Outcome {
	outcome := &Outcome{
		InputURL:   rawURL,
		PolicyType: policyType,
	}

	if !policyType.Valid() {
		outcome.Message = fmt.Sprintf("unknown policy type %q", policyType)
		return outcome
	}

	normalized, err := policy.Normalize(rawURL)
	if err != nil {
		outcome.Message = fmt.Sprintf("invalid url: %v", err)
		return outcome
	}

	parsed, _ := url.Parse(normalized)
	domain := policy.RegistrableDomain(parsed.Hostname())
	outcome.Domain = domain

	log.Info().
		Str("url", normalized).
		Str("domain", domain).
		Str("policy_type", string(policyType)).
		Msg("starting policy discovery")

	// earlier stages' top candidates, used to corroborate later selections
	var priorTops []string

	// static scan: a high-confidence hit here is terminal on its own
	static := o.runStage(ctx, StageStatic, func(ctx context.Context) stageOutcome {
		return o.staticStage(ctx, normalized, domain, policyType)
	})
	outcome.record(StageStatic, static)

	if static.result != nil {
		return outcome.finish(static.result, MethodStatic, true,
			"found via static scan")
	}

	priorTops = appendTop(priorTops, static.topCandidate)

	// rendered scan
	rendered := o.runStage(ctx, StageRendered, func(ctx context.Context) stageOutcome {
		return o.renderedStage(ctx, normalized, policyType)
	})
	outcome.record(StageRendered, rendered)

	if rendered.result != nil {
		method, confirmed := corroborate(MethodRendered, rendered.result.URL, priorTops, policyType)
		return outcome.finish(rendered.result, method, confirmed,
			"found via rendered scan")
	}

	priorTops = appendTop(priorTops, rendered.topCandidate)

	// scroll scan
	scroll := o.runStage(ctx, StageScroll, func(ctx context.Context) stageOutcome {
		return o.scrollStage(ctx, normalized, policyType)
	})
	outcome.record(StageScroll, scroll)

	if scroll.result != nil {
		method, confirmed := corroborate(MethodScroll, scroll.result.URL, priorTops, policyType)
		return outcome.finish(scroll.result, method, confirmed,
			"found via scroll scan")
	}

	priorTops = appendTop(priorTops, scroll.topCandidate)

	// search fallback
	searchRes := o.runStage(ctx, StageSearch, func(ctx context.Context) stageOutcome {
		return o.searchStage(ctx, domain, policyType)
	})
	outcome.record(StageSearch, searchRes)

	if searchRes.result != nil {
		if o.verifyContent(ctx, searchRes.result.URL, policyType) {
			return outcome.finish(searchRes.result, MethodSearchConfirmed, true,
				"found via search fallback, content verified")
		}

		// an unreachable but plausible link still beats nothing
		return outcome.finish(searchRes.result, MethodBestEffort, false,
			"found via search fallback; content could not be verified, treat as best effort")
	}

	outcome.Success = false
	outcome.Message = fmt.Sprintf("no %s link found for %s after exhausting all discovery methods",
		policyType.Label(), domain)

	log.Warn().Str("domain", domain).Str("policy_type", string(policyType)).Msg("discovery exhausted all stages")

	return outcome
}

// runStage executes a stage with a bounded context and converts panics into
// stage failures. A broken stage must degrade the chain, never abort it.
func (o *Orchestrator) runStage(ctx context.Context, stage Stage, fn func(context.Context) stageOutcome) (out stageOutcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("stage", string(stage)).Msg("discovery stage panicked")
			out = stageOutcome{err: fmt.Errorf("%w: %v", ErrStagePanic, r)}
		}
	}()

	stageCtx, cancel := context.WithTimeout(ctx, o.options.stageTimeout)
	defer cancel()

	out = fn(stageCtx)

	if out.err != nil {
		log.Debug().Err(out.err).Str("stage", string(stage)).Msg("discovery stage failed")
	}

	return out
}

// staticStage fetches each URL variation in turn and scans the raw HTML.
// Variations cover the usual ways a site's canonical host differs from the
// user's input: the exact URL, the bare domain root, the www flip, and a
// plain-http downgrade for sites with broken TLS.
func (o *Orchestrator) staticStage(ctx context.Context, normalized, domain string, policyType policy.Type) stageOutcome {
	var (
		lastErr  error
		top      string
		topScore float64
	)

	for _, target := range urlVariations(normalized) {
		resp, err := o.static.FetchStatic(ctx, target)
		if err != nil {
			lastErr = err
			continue
		}

		candidates := policy.ExtractCandidates(resp.HTML, resp.FinalURL)

		if result := policy.ScoreAndSelect(candidates, policyType); result != nil {
			return stageOutcome{result: result}
		}

		// remember the strongest rejected candidate for corroboration
		for _, c := range candidates {
			if c.Score > topScore {
				topScore = c.Score
				top = c.AbsoluteURL
			}
		}
	}

	if lastErr != nil && top == "" {
		return stageOutcome{err: lastErr}
	}

	return stageOutcome{topCandidate: top, err: ErrNoCandidate}
}

// renderedStage scans the post-render DOM for sites that inject their footer
// with scripts.
func (o *Orchestrator) renderedStage(ctx context.Context, normalized string, policyType policy.Type) stageOutcome {
	if o.renderer == nil {
		return stageOutcome{err: ErrRendererUnavailable}
	}

	resp, err := o.renderer.FetchRendered(ctx, normalized)
	if err != nil {
		return stageOutcome{err: err}
	}

	candidates := policy.ExtractCandidates(resp.HTML, resp.FinalURL)

	if result := policy.ScoreAndSelect(candidates, policyType); result != nil {
		return stageOutcome{result: result}
	}

	return stageOutcome{topCandidate: bestCandidateURL(candidates), err: ErrNoCandidate}
}

// scrollStage scrolls through the page, pooling candidates from every
// snapshot before selecting, since lazy-rendered footers may only exist in
// the later checkpoints.
func (o *Orchestrator) scrollStage(ctx context.Context, normalized string, policyType policy.Type) stageOutcome {
	if o.renderer == nil {
		return stageOutcome{err: ErrRendererUnavailable}
	}

	resp, err := o.renderer.FetchScrolled(ctx, normalized, o.options.scrollCheckpoints)
	if err != nil {
		return stageOutcome{err: err}
	}

	var pooled []policy.Candidate

	for _, snapshot := range resp.Snapshots {
		pooled = append(pooled, policy.ExtractCandidates(snapshot, resp.FinalURL)...)
	}

	pooled = lo.UniqBy(pooled, func(c policy.Candidate) string { return c.AbsoluteURL })

	if result := policy.ScoreAndSelect(pooled, policyType); result != nil {
		return stageOutcome{result: result}
	}

	return stageOutcome{topCandidate: bestCandidateURL(pooled), err: ErrNoCandidate}
}

// searchStage queries every configured engine with a site-restricted query
// and scores hits on URL, title, and snippet. Engines are interchangeable
// and optional; any subset may fail without failing the stage.
func (o *Orchestrator) searchStage(ctx context.Context, domain string, policyType policy.Type) stageOutcome {
	if len(o.providers) == 0 {
		return stageOutcome{err: ErrNoSearchProviders}
	}

	query := search.BuildQuery(domain, policyType)

	var (
		best      string
		bestScore float64
		lastErr   error
	)

	for _, provider := range o.providers {
		results, err := provider.Search(ctx, query)
		if err != nil {
			log.Debug().Err(err).Str("provider", provider.Name()).Msg("search provider failed")
			lastErr = err

			continue
		}

		if len(results) > maxSearchResultsScored {
			results = results[:maxSearchResultsScored]
		}

		for _, r := range results {
			score := policy.ScoreSearchResult(r.URL, r.Title, r.Snippet, domain, policyType)
			if score > bestScore {
				bestScore = score
				best = r.URL
			}
		}
	}

	if best == "" || bestScore < policy.MinSelectionScore {
		if lastErr != nil && best == "" {
			return stageOutcome{err: lastErr}
		}

		return stageOutcome{topCandidate: best, err: ErrNoCandidate}
	}

	return stageOutcome{result: &policy.ScoredResult{URL: best, Score: bestScore}}
}

// verifyContent fetches the candidate document and checks it for canonical
// legal-text patterns. Verification failure downgrades, never discards.
func (o *Orchestrator) verifyContent(ctx context.Context, candidateURL string, policyType policy.Type) bool {
	resp, err := o.static.FetchStatic(ctx, candidateURL)
	if err != nil {
		log.Debug().Err(err).Str("url", candidateURL).Msg("content verification fetch failed")
		return false
	}

	matches := policy.ChecklistMatches(resp.HTML, policyType)

	log.Debug().Int("matches", matches).Str("url", candidateURL).Msg("content verification complete")

	return matches >= minChecklistMatches
}

// urlVariations lists the fetch targets for the static stage, most specific
// first, deduplicated.
func urlVariations(normalized string) []string {
	u, err := url.Parse(normalized)
	if err != nil {
		return []string{normalized}
	}

	host := u.Hostname()

	flipped := "www." + host
	if strings.HasPrefix(host, "www.") {
		flipped = strings.TrimPrefix(host, "www.")
	}

	variations := []string{
		normalized,
		"https://" + host,
		"https://" + flipped,
		"http://" + host,
	}

	seen := make(map[string]struct{}, len(variations))

	var unique []string

	for _, v := range variations {
		if _, dup := seen[v]; dup {
			continue
		}

		seen[v] = struct{}{}
		unique = append(unique, v)
	}

	return unique
}

// corroborate upgrades a stage result to confirmed when an earlier stage's
// top candidate points at the same document.
func corroborate(method, resultURL string, priorTops []string, policyType policy.Type) (string, bool) {
	for _, prior := range priorTops {
		if policy.SimilarURLs(resultURL, prior, policyType) {
			return method + corroboratedSuffix, true
		}
	}

	return method, false
}

// bestCandidateURL returns the highest-scored candidate's URL, if any
func bestCandidateURL(candidates []policy.Candidate) string {
	var (
		best  string
		score float64
	)

	for _, c := range candidates {
		if c.Score > score {
			score = c.Score
			best = c.AbsoluteURL
		}
	}

	return best
}

// appendTop adds a non-empty top candidate to the corroboration list
func appendTop(tops []string, top string) []string {
	if top == "" {
		return tops
	}

	return append(tops, top)
}

// record appends a stage attempt to the outcome's stage log
func (out *Outcome) record(stage Stage, so stageOutcome) {
	sr := StageResult{Stage: stage}

	if so.result != nil {
		sr.Found = true
		sr.URL = so.result.URL
		sr.Score = so.result.Score
	} else if so.err != nil {
		sr.Error = so.err.Error()
	}

	out.Stages = append(out.Stages, sr)
}

// finish populates the terminal success fields
func (out *Outcome) finish(result *policy.ScoredResult, method string, confirmed bool, message string) *Outcome {
	out.Success = true
	out.Confirmed = confirmed
	out.ResolvedURL = result.URL
	out.Score = result.Score
	out.Method = method
	out.Message = message

	log.Info().
		Str("url", result.URL).
		Float64("score", result.Score).
		Str("method", method).
		Bool("confirmed", confirmed).
		Msg("policy discovery succeeded")

	return out
}
