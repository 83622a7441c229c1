package validate

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/newsgrab"
)

// leadingDedupeWindow is how many leading lines are checked against
// trailing lines when stripping repeated boilerplate (e.g. a title the
// page renders both above and below the article body).
const leadingDedupeWindow = 3

// Ensure Cleaner implements newsgrab.Cleaner at compile time.
var _ newsgrab.Cleaner = (*Cleaner)(nil)

// Cleaner normalizes extracted text and computes its fingerprint.
// Clean is idempotent.
type Cleaner struct{}

// NewCleaner creates a Cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean collapses whitespace, strips residual markup artifacts, removes
// duplicated boilerplate lines, and fingerprints the result.
func (c *Cleaner) Clean(raw string) (*newsgrab.CleanResult, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, newsgrab.Errorf(newsgrab.EINVALID, "empty text input")
	}

	text := stripArtifacts(raw)
	lines := normalizeLines(text)
	lines = dedupeConsecutive(lines)
	lines = stripTrailingEcho(lines)
	text = strings.TrimSpace(strings.Join(lines, "\n"))

	return &newsgrab.CleanResult{
		Text:        text,
		Fingerprint: fmt.Sprintf("%016x", xxhash.Sum64String(text)),
		WordCount:   len(strings.Fields(text)),
	}, nil
}

// artifactReplacer removes characters that extraction engines leak from
// HTML: zero-width spaces, soft hyphens, BOMs, and non-breaking spaces.
var artifactReplacer = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\u00ad", "",
	"\ufeff", "",
	"\u00a0", " ",
	"\r\n", "\n",
	"\r", "\n",
)

func stripArtifacts(text string) string {
	return artifactReplacer.Replace(text)
}

// normalizeLines trims each line, collapses internal whitespace runs to
// single spaces, and collapses blank-line runs to a single blank line.
func normalizeLines(text string) []string {
	var out []string
	blank := true
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return out
}

// dedupeConsecutive drops lines that exactly repeat the previous
// non-blank line.
func dedupeConsecutive(lines []string) []string {
	var out []string
	var prev string
	for _, line := range lines {
		if line != "" && line == prev {
			continue
		}
		out = append(out, line)
		if line != "" {
			prev = line
		}
	}
	return out
}

// stripTrailingEcho removes trailing lines that duplicate one of the
// first few lines, which catches titles and bylines repeated at the
// bottom of the page.
func stripTrailingEcho(lines []string) []string {
	leading := make(map[string]struct{}, leadingDedupeWindow)
	n := 0
	for _, line := range lines {
		if line == "" {
			continue
		}
		leading[line] = struct{}{}
		n++
		if n == leadingDedupeWindow {
			break
		}
	}

	for len(lines) > n {
		last := lines[len(lines)-1]
		if last == "" {
			lines = lines[:len(lines)-1]
			continue
		}
		if _, ok := leading[last]; !ok {
			break
		}
		lines = lines[:len(lines)-1]
	}
	return lines
}
