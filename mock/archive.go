package mock

import (
	"context"

	"github.com/fwojciec/newsgrab"
)

var _ newsgrab.ArchiveService = (*ArchiveService)(nil)

// ArchiveService is a mock implementation of newsgrab.ArchiveService.
type ArchiveService struct {
	SubmitFn func(ctx context.Context, url string) (string, error)
	PollFn   func(ctx context.Context, jobID string) (*newsgrab.ArchiveStatus, error)
}

func (a *ArchiveService) Submit(ctx context.Context, url string) (string, error) {
	return a.SubmitFn(ctx, url)
}

func (a *ArchiveService) Poll(ctx context.Context, jobID string) (*newsgrab.ArchiveStatus, error) {
	return a.PollFn(ctx, jobID)
}
