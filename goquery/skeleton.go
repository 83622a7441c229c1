package goquery

import (
	"strconv"
	"strings"

	"github.com/fwojciec/newsgrab"
	"golang.org/x/net/html"
)

// Skeleton bounds. The skeleton is sent to a text-generation service, so
// it must stay small and must not leak article text.
const (
	DefaultMaxDepth = 12
	DefaultMaxNodes = 400
)

// skipped elements contribute neither structure nor content.
var skeletonSkip = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"svg":      true,
	"iframe":   true,
	"link":     true,
	"meta":     true,
	"br":       true,
	"hr":       true,
}

// Skeleton renders the structural outline of a page: one line per element
// with tag, id, and classes, indented by depth. Text content is omitted
// entirely; repeated siblings collapse into a count marker. The result is
// what the selector synthesizer sees instead of the full page.
func Skeleton(rawHTML string) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", newsgrab.Errorf(newsgrab.EINVALID, "failed to parse HTML: %v", err)
	}

	var sb strings.Builder
	nodes := 0
	walkSkeleton(doc, 0, &sb, &nodes)

	skeleton := strings.TrimRight(sb.String(), "\n")
	if skeleton == "" {
		return "", newsgrab.Errorf(newsgrab.EINVALID, "page has no structural elements")
	}
	return skeleton, nil
}

func walkSkeleton(n *html.Node, depth int, sb *strings.Builder, nodes *int) {
	if *nodes >= DefaultMaxNodes || depth > DefaultMaxDepth {
		return
	}

	if n.Type == html.ElementNode && !skeletonSkip[n.Data] {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(describeNode(n))
		sb.WriteString("\n")
		*nodes++
		depth++
	}

	// Collapse runs of identical siblings (e.g. hundreds of <p> or <li>)
	// into the first occurrence plus a count.
	var prevDesc string
	repeats := 0
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		desc := describeNode(child)
		if desc == prevDesc && !hasElementChildren(child) {
			repeats++
			continue
		}
		if repeats > 0 {
			sb.WriteString(strings.Repeat("  ", depth))
			sb.WriteString("… ×")
			sb.WriteString(strconv.Itoa(repeats + 1))
			sb.WriteString("\n")
			repeats = 0
		}
		prevDesc = desc
		walkSkeleton(child, depth, sb, nodes)
	}
	if repeats > 0 {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString("… ×")
		sb.WriteString(strconv.Itoa(repeats + 1))
		sb.WriteString("\n")
	}
}

func describeNode(n *html.Node) string {
	var sb strings.Builder
	sb.WriteString(n.Data)
	for _, attr := range n.Attr {
		switch attr.Key {
		case "id":
			if attr.Val != "" {
				sb.WriteString("#")
				sb.WriteString(attr.Val)
			}
		case "class":
			for _, class := range strings.Fields(attr.Val) {
				sb.WriteString(".")
				sb.WriteString(class)
			}
		}
	}
	return sb.String()
}

func hasElementChildren(n *html.Node) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			return true
		}
	}
	return false
}

