package newsgrab

import "context"

// StrategyContext carries the per-request state a strategy may use.
// The orchestrator builds one per request and threads it through the
// cascade; strategies read the selector and session and may publish a
// proposed selector for the orchestrator to record on validated success.
type StrategyContext struct {
	// Selector is the domain's cached selector, if any.
	Selector *CachedSelector

	// Session is set when the attempt should fetch with authenticated
	// session credentials.
	Session *SessionState

	// ProposedSelector is set by the synthesis strategy so the
	// orchestrator can write it to the cache after validation passes.
	ProposedSelector string
}

// Strategy is the common capability of the four extraction variants.
// Attempt returns raw article text; the orchestrator validates it,
// records the ExtractionAttempt, and decides whether to advance.
type Strategy interface {
	// Name identifies the strategy variant.
	Name() StrategyName

	// Attempt fetches and extracts content for the request.
	// Errors carry codes from the cascade taxonomy: EUNAVAILABLE for
	// retryable network failures, EFORBIDDEN/ENOTFOUND for fatal fetch
	// errors, EREFUSED for synthesis refusal.
	Attempt(ctx context.Context, req *ExtractionRequest, sctx *StrategyContext) (*ExtractResult, error)
}
