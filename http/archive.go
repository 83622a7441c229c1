package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/newsgrab"
)

// Ensure ArchiveClient implements newsgrab.ArchiveService at compile time.
var _ newsgrab.ArchiveService = (*ArchiveClient)(nil)

// ArchiveClient speaks the submit-and-poll protocol of an archival mirror
// service: POST /save with the target URL returns a job ID, GET
// /save/status/{job_id} reports pending/success/error with the snapshot
// URL on success.
type ArchiveClient struct {
	baseURL   string
	client    *http.Client
	userAgent string
}

// ArchiveOption configures an ArchiveClient.
type ArchiveOption func(*ArchiveClient)

// WithArchiveHTTPClient overrides the HTTP client, for tests.
func WithArchiveHTTPClient(c *http.Client) ArchiveOption {
	return func(a *ArchiveClient) { a.client = c }
}

// NewArchiveClient creates a client for the archival service at baseURL.
func NewArchiveClient(baseURL string, opts ...ArchiveOption) *ArchiveClient {
	a := &ArchiveClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: 30 * time.Second},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// submitResponse is the service's reply to a snapshot request.
type submitResponse struct {
	JobID string `json:"job_id"`
}

// pollResponse is the service's reply to a status poll.
type pollResponse struct {
	Status      string `json:"status"` // "pending" | "success" | "error"
	SnapshotURL string `json:"snapshot_url"`
	Message     string `json:"message"`
}

// Submit asks the service to snapshot the URL and returns a job ID.
func (a *ArchiveClient) Submit(ctx context.Context, target string) (string, error) {
	form := url.Values{"url": {target}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/save", strings.NewReader(form.Encode()))
	if err != nil {
		return "", newsgrab.Errorf(newsgrab.EINVALID, "archive submit request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", a.userAgent)

	var parsed submitResponse
	if err := a.do(req, &parsed); err != nil {
		return "", err
	}
	if parsed.JobID == "" {
		return "", newsgrab.Errorf(newsgrab.EINTERNAL, "archive service returned no job ID for %s", target)
	}
	return parsed.JobID, nil
}

// Poll reports the state of a submitted job.
func (a *ArchiveClient) Poll(ctx context.Context, jobID string) (*newsgrab.ArchiveStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.baseURL+"/save/status/"+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, newsgrab.Errorf(newsgrab.EINVALID, "archive poll request: %v", err)
	}
	req.Header.Set("User-Agent", a.userAgent)

	var parsed pollResponse
	if err := a.do(req, &parsed); err != nil {
		return nil, err
	}

	switch parsed.Status {
	case "pending":
		return &newsgrab.ArchiveStatus{State: newsgrab.ArchivePending}, nil
	case "success":
		if parsed.SnapshotURL == "" {
			return nil, newsgrab.Errorf(newsgrab.EINTERNAL, "archive job %s succeeded without a snapshot URL", jobID)
		}
		return &newsgrab.ArchiveStatus{State: newsgrab.ArchiveDone, SnapshotURL: parsed.SnapshotURL}, nil
	case "error":
		return &newsgrab.ArchiveStatus{State: newsgrab.ArchiveFailed}, nil
	default:
		return nil, newsgrab.Errorf(newsgrab.EINTERNAL, "archive job %s: unknown status %q", jobID, parsed.Status)
	}
}

func (a *ArchiveClient) do(req *http.Request, out any) error {
	resp, err := a.client.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return req.Context().Err()
		}
		return newsgrab.Errorf(newsgrab.EUNAVAILABLE, "archive service: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return newsgrab.Errorf(newsgrab.EUNAVAILABLE, "archive service: HTTP %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return newsgrab.Errorf(newsgrab.EINTERNAL, "archive service: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return newsgrab.Errorf(newsgrab.EUNAVAILABLE, "archive service: reading response: %v", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return newsgrab.Errorf(newsgrab.EINTERNAL, "archive service: malformed response: %v", err)
	}
	return nil
}
