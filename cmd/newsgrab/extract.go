package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/newsgrab"
)

// Run executes the extract command: build requests, run the cascade over
// the batch, emit one JSON result per line, and persist the cache.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	if len(c.URLs) == 0 {
		return newsgrab.Errorf(newsgrab.EINVALID, "at least one URL required")
	}

	reqs := make([]*newsgrab.ExtractionRequest, 0, len(c.URLs))
	for _, rawURL := range c.URLs {
		req, err := newsgrab.NewExtractionRequest(rawURL, c.Auth)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", newsgrab.ErrorMessage(err))
			return err
		}
		reqs = append(reqs, req)
	}

	results := deps.Cascade.ExtractAll(deps.Ctx, reqs)

	defer flushCache(deps)

	enc := json.NewEncoder(deps.Stdout)
	var succeeded, failed, duplicates int
	for _, result := range results {
		if err := enc.Encode(result); err != nil {
			return err
		}
		switch result.Status {
		case newsgrab.StatusSuccess:
			succeeded++
			if result.Duplicate {
				duplicates++
			}
		default:
			failed++
		}
	}

	fmt.Fprintf(deps.Stderr, "extracted %d/%d (%d failed, %d duplicates)\n",
		succeeded, len(results), failed, duplicates)

	if failed == len(results) && len(results) > 0 {
		return newsgrab.Errorf(newsgrab.EINTERNAL, "all %d extractions failed", failed)
	}
	return nil
}
