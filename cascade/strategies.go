package cascade

import (
	"context"
	"time"

	"github.com/fwojciec/newsgrab"
	"github.com/fwojciec/newsgrab/goquery"
)

// fetchPage retrieves the request's page, using session credentials when
// the strategy context carries a session. Transient failures are retried
// with backoff.
func fetchPage(ctx context.Context, req *newsgrab.ExtractionRequest, sctx *newsgrab.StrategyContext, fetcher newsgrab.Fetcher, sessions newsgrab.SessionFetcher, delays []time.Duration) (string, error) {
	fetch := func(ctx context.Context) (string, error) {
		if sctx.Session != nil && sessions != nil {
			return sessions.FetchWithSession(ctx, req.URL, sctx.Session)
		}
		return fetcher.Fetch(ctx, req.URL)
	}
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetry(ctx, fetch, delays)
}

var _ newsgrab.Strategy = (*CachedSelectorStrategy)(nil)

// CachedSelectorStrategy extracts content with the domain's cached
// selector. It fails fast when the strategy context carries no selector.
type CachedSelectorStrategy struct {
	Fetcher     newsgrab.Fetcher
	Sessions    newsgrab.SessionFetcher
	RetryDelays []time.Duration
}

// Name identifies the strategy variant.
func (s *CachedSelectorStrategy) Name() newsgrab.StrategyName {
	return newsgrab.StrategyCachedSelector
}

// Attempt fetches the page and extracts the region matched by the cached
// selector.
func (s *CachedSelectorStrategy) Attempt(ctx context.Context, req *newsgrab.ExtractionRequest, sctx *newsgrab.StrategyContext) (*newsgrab.ExtractResult, error) {
	if sctx.Selector == nil {
		return nil, newsgrab.Errorf(newsgrab.EINVALID, "no cached selector for domain %q", req.Domain)
	}

	rawHTML, err := fetchPage(ctx, req, sctx, s.Fetcher, s.Sessions, s.RetryDelays)
	if err != nil {
		return nil, err
	}

	// A selector that matches nothing yields empty content, which fails
	// validation downstream and counts against the cached entry.
	content, err := goquery.ApplySelector(rawHTML, sctx.Selector.Expression)
	if err != nil && newsgrab.ErrorCode(err) != newsgrab.ENOTFOUND {
		return nil, err
	}

	return &newsgrab.ExtractResult{
		Title:       goquery.Title(rawHTML),
		ContentHTML: content,
	}, nil
}

var _ newsgrab.Strategy = (*HeuristicStrategy)(nil)

// HeuristicStrategy extracts content with a density-based extraction
// engine that needs no domain knowledge.
type HeuristicStrategy struct {
	Fetcher     newsgrab.Fetcher
	Sessions    newsgrab.SessionFetcher
	Extractor   newsgrab.Extractor
	RetryDelays []time.Duration
}

// Name identifies the strategy variant.
func (s *HeuristicStrategy) Name() newsgrab.StrategyName {
	return newsgrab.StrategyHeuristic
}

// Attempt fetches the page and runs the heuristic extraction engine.
func (s *HeuristicStrategy) Attempt(ctx context.Context, req *newsgrab.ExtractionRequest, sctx *newsgrab.StrategyContext) (*newsgrab.ExtractResult, error) {
	rawHTML, err := fetchPage(ctx, req, sctx, s.Fetcher, s.Sessions, s.RetryDelays)
	if err != nil {
		return nil, err
	}

	return s.Extractor.Extract(rawHTML)
}

var _ newsgrab.Strategy = (*SynthesisStrategy)(nil)

// SynthesisStrategy asks a text-generation service to propose a selector
// from the page's structural skeleton, then applies the proposal. On
// success it publishes the proposal on the strategy context so the
// orchestrator can cache it once validation passes.
type SynthesisStrategy struct {
	Fetcher     newsgrab.Fetcher
	Sessions    newsgrab.SessionFetcher
	Synthesizer newsgrab.SelectorSynthesizer
	RetryDelays []time.Duration
}

// Name identifies the strategy variant.
func (s *SynthesisStrategy) Name() newsgrab.StrategyName {
	return newsgrab.StrategySynthesis
}

// Attempt fetches the page, proposes a selector for its skeleton, and
// extracts the matched region.
func (s *SynthesisStrategy) Attempt(ctx context.Context, req *newsgrab.ExtractionRequest, sctx *newsgrab.StrategyContext) (*newsgrab.ExtractResult, error) {
	rawHTML, err := fetchPage(ctx, req, sctx, s.Fetcher, s.Sessions, s.RetryDelays)
	if err != nil {
		return nil, err
	}

	skeleton, err := goquery.Skeleton(rawHTML)
	if err != nil {
		return nil, err
	}

	expression, err := s.Synthesizer.Propose(ctx, skeleton)
	if err != nil {
		return nil, err
	}

	content, err := goquery.ApplySelector(rawHTML, expression)
	if err != nil {
		return nil, err
	}

	sctx.ProposedSelector = expression

	return &newsgrab.ExtractResult{
		Title:       goquery.Title(rawHTML),
		ContentHTML: content,
	}, nil
}

// DefaultPollInterval is how often the archival strategy polls a
// submitted job.
const DefaultPollInterval = 3 * time.Second

var _ newsgrab.Strategy = (*ArchivalStrategy)(nil)

// ArchivalStrategy submits the URL to an archival mirror, polls the job
// until a snapshot exists, then extracts from the snapshot heuristically.
// The overall request deadline bounds the polling loop. Snapshot fetches
// hit the mirror, not the news domain, so the orchestrator exempts this
// strategy from per-domain rate limits.
type ArchivalStrategy struct {
	Archive      newsgrab.ArchiveService
	Fetcher      newsgrab.Fetcher
	Extractor    newsgrab.Extractor
	PollInterval time.Duration
	RetryDelays  []time.Duration
}

// Name identifies the strategy variant.
func (s *ArchivalStrategy) Name() newsgrab.StrategyName {
	return newsgrab.StrategyArchival
}

// Attempt submits, polls to completion, and extracts from the snapshot.
func (s *ArchivalStrategy) Attempt(ctx context.Context, req *newsgrab.ExtractionRequest, sctx *newsgrab.StrategyContext) (*newsgrab.ExtractResult, error) {
	jobID, err := s.Archive.Submit(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	snapshotURL, err := s.pollUntilDone(ctx, jobID)
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context) (string, error) {
		return s.Fetcher.Fetch(ctx, snapshotURL)
	}
	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	rawHTML, err := FetchWithRetry(ctx, fetch, delays)
	if err != nil {
		return nil, err
	}

	return s.Extractor.Extract(rawHTML)
}

// pollUntilDone polls the job until it completes or the context expires.
func (s *ArchivalStrategy) pollUntilDone(ctx context.Context, jobID string) (string, error) {
	interval := s.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := s.Archive.Poll(ctx, jobID)
		if err != nil {
			// Transient service errors keep polling until the deadline.
			if newsgrab.ErrorCode(err) == newsgrab.EUNAVAILABLE {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-ticker.C:
					continue
				}
			}
			return "", err
		}

		switch status.State {
		case newsgrab.ArchiveDone:
			return status.SnapshotURL, nil
		case newsgrab.ArchiveFailed:
			return "", newsgrab.Errorf(newsgrab.EUNAVAILABLE, "archival job %q failed", jobID)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}
