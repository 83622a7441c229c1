// Package trafilatura provides the heuristic extraction strategy's engine.
// go-trafilatura scores content candidates by text density and tag
// structure, which works across unfamiliar news domains without any
// cached selector.
package trafilatura

import (
	"bytes"
	"strings"
	"time"

	"github.com/fwojciec/newsgrab"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements newsgrab.Extractor at compile time.
var _ newsgrab.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main article content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content with article
// metadata (title, author, publication date) when the page exposes it.
func (e *Extractor) Extract(rawHTML string) (*newsgrab.ExtractResult, error) {
	if rawHTML == "" {
		return nil, newsgrab.Errorf(newsgrab.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	var published string
	if !result.Metadata.Date.IsZero() {
		published = result.Metadata.Date.Format(time.RFC3339)
	}

	return &newsgrab.ExtractResult{
		Title:       result.Metadata.Title,
		Author:      result.Metadata.Author,
		PublishedAt: published,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
