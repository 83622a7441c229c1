package mock

import (
	"context"

	"github.com/fwojciec/newsgrab"
)

var _ newsgrab.Strategy = (*Strategy)(nil)

// Strategy is a mock implementation of newsgrab.Strategy.
type Strategy struct {
	NameFn    func() newsgrab.StrategyName
	AttemptFn func(ctx context.Context, req *newsgrab.ExtractionRequest, sctx *newsgrab.StrategyContext) (*newsgrab.ExtractResult, error)
}

func (s *Strategy) Name() newsgrab.StrategyName {
	return s.NameFn()
}

func (s *Strategy) Attempt(ctx context.Context, req *newsgrab.ExtractionRequest, sctx *newsgrab.StrategyContext) (*newsgrab.ExtractResult, error) {
	return s.AttemptFn(ctx, req, sctx)
}
