// Package cascade orchestrates article extraction: it runs the strategy
// chain per URL, validates and cleans each attempt's output, keeps the
// selector cache honest, and coordinates concurrent batch runs.
package cascade

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/newsgrab"
	"github.com/fwojciec/newsgrab/bloom"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Defaults for batch orchestration.
const (
	DefaultConcurrency          = 8
	DefaultPerDomainConcurrency = 2
	DefaultDeadline             = 2 * time.Minute
)

// Cascade runs the extraction strategy chain for article URLs.
//
// Strategy order per request: the cached selector first when the domain
// has one, then heuristic extraction, then selector synthesis (only when
// no selector was cached at the start of the run), then the archival
// mirror as last resort.
type Cascade struct {
	Cache     newsgrab.SelectorCache
	Converter newsgrab.Converter
	Cleaner   newsgrab.Cleaner
	Validator newsgrab.Validator

	// Sessions enables the authenticated re-run after a paywall signal.
	// Optional.
	Sessions newsgrab.SessionManager

	// RateLimiter paces direct fetches per domain. Archival attempts hit
	// the mirror, not the news domain, and bypass it. Optional.
	RateLimiter newsgrab.DomainLimiter

	// Duplicates marks results whose fingerprint was already produced in
	// this run. Optional.
	Duplicates *bloom.Filter

	CachedSelector newsgrab.Strategy
	Heuristic      newsgrab.Strategy
	Synthesis      newsgrab.Strategy
	Archival       newsgrab.Strategy

	// Deadline bounds each request's full cascade run, archival polling
	// included.
	Deadline time.Duration

	// Concurrency is the batch worker limit.
	Concurrency int

	// PerDomainConcurrency caps in-flight requests per domain.
	PerDomainConcurrency int64

	semMu sync.Mutex
	sems  map[string]*semaphore.Weighted
}

// attemptRun is the internal outcome of one strategy attempt.
type attemptRun struct {
	attempt    newsgrab.ExtractionAttempt
	clean      *newsgrab.CleanResult
	title      string
	validation newsgrab.ValidationOutcome
	code       string
}

// Extract runs the cascade for one request. Failures along the chain are
// recorded on the result; an error is returned only for an invalid
// request.
func (c *Cascade) Extract(ctx context.Context, req *newsgrab.ExtractionRequest) (*newsgrab.ExtractionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result := &newsgrab.ExtractionResult{
		ID:     uuid.New().String(),
		URL:    req.URL,
		Domain: req.Domain,
		Status: newsgrab.StatusFailed,
	}

	deadline := c.Deadline
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	selector := c.Cache.Lookup(req.Domain)
	sctx := &newsgrab.StrategyContext{Selector: selector}

	authTried := false
	for _, strategy := range c.chain(selector != nil) {
		run := c.runAttempt(ctx, req, strategy, sctx, false)
		result.Attempts = append(result.Attempts, run.attempt)

		if run.attempt.Outcome == newsgrab.OutcomeSuccess {
			c.finishSuccess(result, strategy, sctx, run)
			return result, nil
		}
		result.Error = run.attempt.Error

		if ctx.Err() != nil {
			result.Error = newsgrab.ErrorMessage(newsgrab.Errorf(newsgrab.ETIMEOUT, "extraction deadline exceeded for %q", req.URL))
			return result, nil
		}

		c.recordSelectorOutcome(req.Domain, strategy, sctx, run)

		// A paywall signal triggers one authenticated re-run of the same
		// strategy, stale credentials included.
		if !authTried && c.paywallSignal(run) && req.AllowAuthenticated && c.Sessions != nil {
			authTried = true
			if session, _ := c.Sessions.EnsureFresh(ctx, req.Domain); session != nil {
				sctx.Session = session
				rerun := c.runAttempt(ctx, req, strategy, sctx, true)
				result.Attempts = append(result.Attempts, rerun.attempt)
				sctx.Session = nil

				if rerun.attempt.Outcome == newsgrab.OutcomeSuccess {
					c.finishSuccess(result, strategy, sctx, rerun)
					return result, nil
				}
				result.Error = rerun.attempt.Error
				c.recordSelectorOutcome(req.Domain, strategy, sctx, rerun)

				if ctx.Err() != nil {
					result.Error = newsgrab.ErrorMessage(newsgrab.Errorf(newsgrab.ETIMEOUT, "extraction deadline exceeded for %q", req.URL))
					return result, nil
				}
			}
		}
	}

	if result.Error == "" {
		result.Error = "no extraction strategy available"
	}
	return result, nil
}

// ExtractAll runs the cascade for a batch of requests concurrently,
// bounded by the worker limit and the per-domain cap. Results are
// returned in submission order.
func (c *Cascade) ExtractAll(ctx context.Context, reqs []*newsgrab.ExtractionRequest) []*newsgrab.ExtractionResult {
	results := make([]*newsgrab.ExtractionResult, len(reqs))

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			sem := c.domainSemaphore(req.Domain)
			if err := sem.Acquire(gctx, 1); err != nil {
				results[i] = failedResult(req, err)
				return nil
			}
			defer sem.Release(1)

			result, err := c.Extract(gctx, req)
			if err != nil {
				result = failedResult(req, err)
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// chain returns the strategy order for this run. Synthesis only runs
// when no selector was cached at the start: a freshly failed selector is
// evicted through failure accounting, not replaced mid-request.
func (c *Cascade) chain(hadSelector bool) []newsgrab.Strategy {
	var chain []newsgrab.Strategy
	if hadSelector && c.CachedSelector != nil {
		chain = append(chain, c.CachedSelector)
	}
	if c.Heuristic != nil {
		chain = append(chain, c.Heuristic)
	}
	if !hadSelector && c.Synthesis != nil {
		chain = append(chain, c.Synthesis)
	}
	if c.Archival != nil {
		chain = append(chain, c.Archival)
	}
	return chain
}

// runAttempt executes one strategy attempt: rate limit, fetch/extract,
// convert, clean, validate.
func (c *Cascade) runAttempt(ctx context.Context, req *newsgrab.ExtractionRequest, strategy newsgrab.Strategy, sctx *newsgrab.StrategyContext, authenticated bool) attemptRun {
	run := attemptRun{
		attempt: newsgrab.ExtractionAttempt{
			Strategy:      strategy.Name(),
			StartedAt:     time.Now(),
			Authenticated: authenticated,
		},
	}
	defer func() {
		run.attempt.EndedAt = time.Now()
	}()

	if strategy.Name() != newsgrab.StrategyArchival && c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, req.Domain); err != nil {
			run.attempt.Outcome = newsgrab.OutcomeFatal
			run.attempt.Error = err.Error()
			return run
		}
	}

	extracted, err := strategy.Attempt(ctx, req, sctx)
	if err != nil {
		run.code = newsgrab.ErrorCode(err)
		run.attempt.Error = err.Error()
		if newsgrab.ErrorCode(err) == newsgrab.EUNAVAILABLE {
			run.attempt.Outcome = newsgrab.OutcomeFetchError
		} else {
			run.attempt.Outcome = newsgrab.OutcomeFatal
		}
		return run
	}

	markdown, err := c.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		run.attempt.Outcome = newsgrab.OutcomeValidationFailed
		run.attempt.Error = err.Error()
		return run
	}
	run.attempt.RawLength = len(markdown)

	clean, err := c.Cleaner.Clean(markdown)
	if err != nil {
		run.attempt.Outcome = newsgrab.OutcomeValidationFailed
		run.attempt.Error = err.Error()
		return run
	}

	outcome := c.Validator.Validate(clean.Text)
	run.validation = outcome
	if outcome != newsgrab.ValidationOK {
		run.attempt.Outcome = newsgrab.OutcomeValidationFailed
		run.attempt.Error = "content validation failed: " + string(outcome)
		return run
	}

	run.attempt.Outcome = newsgrab.OutcomeSuccess
	run.clean = clean
	run.title = extracted.Title
	return run
}

// finishSuccess fills the result from a validated attempt and updates
// cache and dedup state.
func (c *Cascade) finishSuccess(result *newsgrab.ExtractionResult, strategy newsgrab.Strategy, sctx *newsgrab.StrategyContext, run attemptRun) {
	result.Status = newsgrab.StatusSuccess
	result.Method = strategy.Name()
	result.Title = run.title
	result.Content = run.clean.Text
	result.WordCount = run.clean.WordCount
	result.Fingerprint = run.clean.Fingerprint
	result.Error = ""

	switch strategy.Name() {
	case newsgrab.StrategyCachedSelector:
		if sctx.Selector != nil {
			c.Cache.RecordSuccess(result.Domain, sctx.Selector.Expression)
		}
	case newsgrab.StrategySynthesis:
		if sctx.ProposedSelector != "" {
			c.Cache.RecordSuccess(result.Domain, sctx.ProposedSelector)
		}
	}

	if c.Duplicates != nil {
		result.Duplicate = c.Duplicates.Seen(run.clean.Fingerprint)
	}
}

// recordSelectorOutcome counts a failed cached-selector attempt against
// the cache entry. Fetch errors say nothing about the selector and are
// not counted.
func (c *Cascade) recordSelectorOutcome(domain string, strategy newsgrab.Strategy, sctx *newsgrab.StrategyContext, run attemptRun) {
	if strategy.Name() != newsgrab.StrategyCachedSelector || sctx.Selector == nil {
		return
	}
	if run.attempt.Outcome == newsgrab.OutcomeValidationFailed {
		c.Cache.RecordFailure(domain, sctx.Selector.Expression)
	}
}

// paywallSignal reports whether the attempt looks like withheld content:
// a paywall validation outcome, an implausibly short body (the usual
// soft-paywall teaser), or a forbidden fetch.
func (c *Cascade) paywallSignal(run attemptRun) bool {
	return run.validation == newsgrab.ValidationPaywalled ||
		run.validation == newsgrab.ValidationTooShort ||
		run.code == newsgrab.EFORBIDDEN
}

// domainSemaphore returns the per-domain concurrency cap, creating it on
// first use.
func (c *Cascade) domainSemaphore(domain string) *semaphore.Weighted {
	c.semMu.Lock()
	defer c.semMu.Unlock()
	if c.sems == nil {
		c.sems = make(map[string]*semaphore.Weighted)
	}
	sem, ok := c.sems[domain]
	if !ok {
		weight := c.PerDomainConcurrency
		if weight <= 0 {
			weight = DefaultPerDomainConcurrency
		}
		sem = semaphore.NewWeighted(weight)
		c.sems[domain] = sem
	}
	return sem
}

// failedResult builds a terminal failed result for a request that never
// ran the chain.
func failedResult(req *newsgrab.ExtractionRequest, err error) *newsgrab.ExtractionResult {
	return &newsgrab.ExtractionResult{
		ID:     uuid.New().String(),
		URL:    req.URL,
		Domain: req.Domain,
		Status: newsgrab.StatusFailed,
		Error:  newsgrab.ErrorMessage(err),
	}
}
