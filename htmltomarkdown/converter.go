// Package htmltomarkdown converts extracted content HTML into markdown
// text for validation and downstream consumption.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/newsgrab"
)

// droppedTags are elements that carry no sentence text in article bodies:
// embedded media, photo captions, and the promo blocks news CMSes nest
// inside content containers. Keeping them out keeps word counts and
// fingerprints honest.
var droppedTags = []string{
	"img",
	"picture",
	"figure",
	"figcaption",
	"aside",
	"form",
	"iframe",
}

// Ensure Converter implements newsgrab.Converter at compile time.
var _ newsgrab.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown, tuned for news article bodies.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	for _, tag := range droppedTags {
		conv.Register.TagType(tag, converter.TagTypeRemove, converter.PriorityStandard)
	}
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", newsgrab.Errorf(newsgrab.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	return result, nil
}
