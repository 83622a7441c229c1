package mock

import "github.com/fwojciec/newsgrab"

var _ newsgrab.Validator = (*Validator)(nil)

// Validator is a mock implementation of newsgrab.Validator.
type Validator struct {
	ValidateFn func(text string) newsgrab.ValidationOutcome
}

func (v *Validator) Validate(text string) newsgrab.ValidationOutcome {
	return v.ValidateFn(text)
}

var _ newsgrab.Cleaner = (*Cleaner)(nil)

// Cleaner is a mock implementation of newsgrab.Cleaner.
type Cleaner struct {
	CleanFn func(raw string) (*newsgrab.CleanResult, error)
}

func (c *Cleaner) Clean(raw string) (*newsgrab.CleanResult, error) {
	return c.CleanFn(raw)
}
