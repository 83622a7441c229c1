// Package goquery provides CSS-selector based content extraction and the
// structural page skeleton used for selector synthesis.
package goquery

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/newsgrab"
	"golang.org/x/net/html"
)

// CompileSelector validates a selector expression. goquery panics on
// invalid selectors inside Find, so expressions from the cache or the
// synthesis service must be compiled first.
func CompileSelector(expression string) (cascadia.Selector, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, newsgrab.Errorf(newsgrab.EINVALID, "empty selector expression")
	}
	sel, err := cascadia.Compile(expression)
	if err != nil {
		return nil, newsgrab.Errorf(newsgrab.EINVALID, "invalid selector %q: %v", expression, err)
	}
	return sel, nil
}

// ApplySelector extracts the content region matched by the selector
// expression and returns it as HTML. Multiple matches are concatenated in
// document order. Returns ENOTFOUND when the selector matches nothing or
// only empty nodes.
func ApplySelector(rawHTML, expression string) (string, error) {
	matcher, err := CompileSelector(expression)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", newsgrab.Errorf(newsgrab.EINVALID, "failed to parse HTML: %v", err)
	}

	var sb strings.Builder
	doc.FindMatcher(matcher).Each(func(_ int, sel *goquery.Selection) {
		for _, node := range sel.Nodes {
			var buf bytes.Buffer
			if err := html.Render(&buf, node); err != nil {
				return
			}
			sb.WriteString(buf.String())
			sb.WriteString("\n")
		}
	})

	content := strings.TrimSpace(sb.String())
	if content == "" {
		return "", newsgrab.Errorf(newsgrab.ENOTFOUND, "selector %q matched no content", expression)
	}
	return content, nil
}

// Title returns the page title: og:title when present, else <title>.
func Title(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
