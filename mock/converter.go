package mock

import "github.com/fwojciec/newsgrab"

var _ newsgrab.Converter = (*Converter)(nil)

// Converter is a mock implementation of newsgrab.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
