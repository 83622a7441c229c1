package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fwojciec/newsgrab"
)

// Run executes the cache list command.
func (c *CacheListCmd) Run(deps *Dependencies) error {
	entries := deps.Cache.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(deps.Stdout, "no cached selectors")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "DOMAIN\tSELECTOR\tHITS\tFAILURES\tLAST VALIDATED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			e.Domain, e.Expression, e.HitCount, e.ConsecutiveFailures,
			e.LastValidatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

// Run executes the cache invalidate command.
func (c *CacheInvalidateCmd) Run(deps *Dependencies) error {
	if deps.Cache.Lookup(c.Domain) == nil {
		fmt.Fprintf(deps.Stderr, "error: no cached selector for %q\n", c.Domain)
		return newsgrab.Errorf(newsgrab.ENOTFOUND, "no cached selector for %q", c.Domain)
	}

	deps.Cache.Invalidate(c.Domain)
	flushCache(deps)

	fmt.Fprintf(deps.Stdout, "invalidated selector for %s\n", c.Domain)
	return nil
}
