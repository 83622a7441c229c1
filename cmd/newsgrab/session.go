package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/newsgrab"
)

// Run executes the session show command.
func (c *SessionShowCmd) Run(deps *Dependencies) error {
	state, err := deps.SessionStore.Load(c.Domain)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgrab.ErrorMessage(err))
		return err
	}

	now := time.Now()
	fmt.Fprintf(deps.Stdout, "domain:       %s\n", state.Domain)
	fmt.Fprintf(deps.Stdout, "credentials:  %d\n", len(state.Credentials))
	fmt.Fprintf(deps.Stdout, "fetched:      %s\n", state.FetchedAt.Format(time.RFC3339))
	fmt.Fprintf(deps.Stdout, "renewal due:  %s\n", state.RenewalDueAt.Format(time.RFC3339))
	fmt.Fprintf(deps.Stdout, "usable:       %t\n", state.Usable(now))

	for _, cred := range state.Credentials {
		expiry := "session"
		if !cred.ExpiresAt.IsZero() {
			expiry = cred.ExpiresAt.Format(time.RFC3339)
		}
		fmt.Fprintf(deps.Stdout, "  %s (expires %s)\n", cred.Name, expiry)
	}
	return nil
}

// Run executes the session renew command.
func (c *SessionRenewCmd) Run(deps *Dependencies) error {
	state, err := deps.Sessions.Renew(deps.Ctx, c.Domain)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgrab.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "renewed session for %s (%d credentials, renewal due %s)\n",
		state.Domain, len(state.Credentials), state.RenewalDueAt.Format(time.RFC3339))
	return nil
}
