// Package slog provides logging decorators for extraction components.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/newsgrab"
)

// Ensure LoggingStrategy implements newsgrab.Strategy.
var _ newsgrab.Strategy = (*LoggingStrategy)(nil)

// LoggingStrategy wraps a Strategy with per-attempt logging.
type LoggingStrategy struct {
	next   newsgrab.Strategy
	logger *slog.Logger
}

// NewLoggingStrategy creates a new LoggingStrategy.
func NewLoggingStrategy(next newsgrab.Strategy, logger *slog.Logger) *LoggingStrategy {
	return &LoggingStrategy{next: next, logger: logger}
}

// Name delegates to the wrapped strategy.
func (s *LoggingStrategy) Name() newsgrab.StrategyName {
	return s.next.Name()
}

// Attempt delegates to the wrapped strategy and logs the attempt.
func (s *LoggingStrategy) Attempt(ctx context.Context, req *newsgrab.ExtractionRequest, sctx *newsgrab.StrategyContext) (result *newsgrab.ExtractResult, err error) {
	defer func(begin time.Time) {
		var bytes int
		if result != nil {
			bytes = len(result.ContentHTML)
		}
		s.logger.Info("strategy attempt",
			"strategy", string(s.next.Name()),
			"url", req.URL,
			"domain", req.Domain,
			"authenticated", sctx.Session != nil,
			"bytes", bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Attempt(ctx, req, sctx)
}
