package mock

import "github.com/fwojciec/newsgrab"

var _ newsgrab.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of newsgrab.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*newsgrab.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*newsgrab.ExtractResult, error) {
	return e.ExtractFn(html)
}
