package newsgrab

import "context"

// ArchiveJobState is the state of a submitted archival job.
type ArchiveJobState string

// Archival job states.
const (
	ArchivePending ArchiveJobState = "pending"
	ArchiveDone    ArchiveJobState = "done"
	ArchiveFailed  ArchiveJobState = "failed"
)

// ArchiveStatus is one poll observation of an archival job.
type ArchiveStatus struct {
	State ArchiveJobState

	// SnapshotURL is set when State is ArchiveDone.
	SnapshotURL string
}

// ArchiveService is the outbound submit-and-poll capability of a
// third-party archival mirror. It serves as the last-resort strategy when
// direct and authenticated access fail.
type ArchiveService interface {
	// Submit asks the service to snapshot the URL and returns a job ID.
	Submit(ctx context.Context, url string) (jobID string, err error)

	// Poll reports the job's state. Implementations return EUNAVAILABLE
	// for transient service errors.
	Poll(ctx context.Context, jobID string) (*ArchiveStatus, error)
}
