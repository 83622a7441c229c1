package newsgrab

import (
	"net/url"
	"strings"
	"time"
)

// ExtractionRequest describes a single article URL to extract.
// Requests are immutable once created.
type ExtractionRequest struct {
	URL    string `json:"url"`
	Domain string `json:"domain"`

	// AllowAuthenticated permits strategies to retry with session cookies
	// when a paywall is detected.
	AllowAuthenticated bool `json:"allowAuthenticated"`
}

// NewExtractionRequest creates a request for the given URL, deriving the
// domain from the URL host.
func NewExtractionRequest(rawURL string, allowAuthenticated bool) (*ExtractionRequest, error) {
	domain, err := DomainOf(rawURL)
	if err != nil {
		return nil, err
	}
	return &ExtractionRequest{
		URL:                rawURL,
		Domain:             domain,
		AllowAuthenticated: allowAuthenticated,
	}, nil
}

// DomainOf derives the canonical domain from a URL: lowercased host with
// any "www." prefix and port stripped.
func DomainOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", Errorf(EINVALID, "unsupported URL scheme %q", u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", Errorf(EINVALID, "URL %q has no host", rawURL)
	}
	return strings.TrimPrefix(host, "www."), nil
}

// AttemptOutcome classifies how a single strategy attempt ended.
type AttemptOutcome string

// Attempt outcomes, recorded in order on the result.
const (
	OutcomeSuccess          AttemptOutcome = "success"
	OutcomeValidationFailed AttemptOutcome = "validation_failed"
	OutcomeFetchError       AttemptOutcome = "fetch_error"
	OutcomeFatal            AttemptOutcome = "fatal"
)

// StrategyName identifies an extraction strategy variant.
type StrategyName string

// The closed set of strategy variants the cascade can apply.
const (
	StrategyCachedSelector StrategyName = "cached_selector"
	StrategyHeuristic      StrategyName = "heuristic"
	StrategySynthesis      StrategyName = "synthesis"
	StrategyArchival       StrategyName = "archival"
)

// ExtractionAttempt records one strategy attempt within a cascade run.
// Attempts are append-only and ordered.
type ExtractionAttempt struct {
	Strategy  StrategyName   `json:"strategy"`
	StartedAt time.Time      `json:"startedAt"`
	EndedAt   time.Time      `json:"endedAt"`
	Outcome   AttemptOutcome `json:"outcome"`
	RawLength int            `json:"rawLength"`

	// Authenticated is true for the session-cookie re-run of a strategy.
	Authenticated bool `json:"authenticated,omitempty"`

	// Error holds the attempt's error message when the outcome is not success.
	Error string `json:"error,omitempty"`
}

// Result statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// ExtractionResult is the terminal outcome for one ExtractionRequest.
// It is produced exactly once and is immutable once returned; callers that
// need submission order re-associate results by URL.
type ExtractionResult struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Domain string `json:"domain"`
	Status string `json:"finalStatus"`

	// Method names the strategy that produced the content. Empty on failure.
	Method StrategyName `json:"methodUsed,omitempty"`

	Title       string `json:"title,omitempty"`
	Content     string `json:"content,omitempty"`
	WordCount   int    `json:"wordCount"`
	Fingerprint string `json:"fingerprint,omitempty"`

	// Duplicate is set when the content fingerprint was already seen in
	// this run.
	Duplicate bool `json:"duplicate,omitempty"`

	Attempts []ExtractionAttempt `json:"attempts"`

	// Error holds the last failure message when Status is failed.
	Error string `json:"error,omitempty"`
}

// Validate returns an error if the request contains invalid fields.
func (r *ExtractionRequest) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "request URL required")
	}
	if r.Domain == "" {
		return Errorf(EINVALID, "request domain required")
	}
	return nil
}
