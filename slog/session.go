package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/newsgrab"
)

// Ensure LoggingSessionManager implements newsgrab.SessionManager.
var _ newsgrab.SessionManager = (*LoggingSessionManager)(nil)

// LoggingSessionManager wraps a SessionManager with renewal logging.
type LoggingSessionManager struct {
	next   newsgrab.SessionManager
	logger *slog.Logger
}

// NewLoggingSessionManager creates a new LoggingSessionManager.
func NewLoggingSessionManager(next newsgrab.SessionManager, logger *slog.Logger) *LoggingSessionManager {
	return &LoggingSessionManager{next: next, logger: logger}
}

// Get delegates to the wrapped manager.
func (m *LoggingSessionManager) Get(domain string) *newsgrab.SessionState {
	return m.next.Get(domain)
}

// EnsureFresh delegates to the wrapped manager and logs the outcome.
func (m *LoggingSessionManager) EnsureFresh(ctx context.Context, domain string) (session *newsgrab.SessionState, err error) {
	defer func(begin time.Time) {
		m.logger.Info("session ensure fresh",
			"domain", domain,
			"usable", session != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return m.next.EnsureFresh(ctx, domain)
}

// Renew delegates to the wrapped manager and logs the renewal.
func (m *LoggingSessionManager) Renew(ctx context.Context, domain string) (session *newsgrab.SessionState, err error) {
	defer func(begin time.Time) {
		var credentials int
		if session != nil {
			credentials = len(session.Credentials)
		}
		m.logger.Info("session renewal",
			"domain", domain,
			"credentials", credentials,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return m.next.Renew(ctx, domain)
}
