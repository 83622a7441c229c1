package newsgrab

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the article title extracted from metadata.
	Title string

	// Author and PublishedAt come from page metadata when available.
	Author      string
	PublishedAt string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main article content from HTML pages, removing
// boilerplate. This is the heuristic capability: it must work across
// unfamiliar domains without any cached selector.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	// The title comes from page metadata (meta tags, JSON+LD, etc.).
	Extract(html string) (*ExtractResult, error)
}
