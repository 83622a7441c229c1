// Package validate provides post-extraction content validation and text
// normalization. Both are pure functions over text: they never touch the
// network, the selector cache, or session state.
package validate

import (
	"strings"

	"github.com/fwojciec/newsgrab"
)

// Default validation thresholds.
const (
	DefaultMinWordCount = 150

	// navLineRatio is the fraction of short, navigation-like lines above
	// which a page is treated as a paywall/teaser shell.
	navLineRatio = 0.6
	// navLineMinLines avoids flagging legitimately short articles.
	navLineMinLines = 8
	// navLineMaxWords is the word count at or below which a line counts
	// as navigation-like.
	navLineMaxWords = 3

	// uniqueWordRatio below this marks text as template boilerplate.
	uniqueWordRatio = 0.25
	// uniqueWordMinWords avoids flagging very short texts.
	uniqueWordMinWords = 50
)

// defaultPaywallMarkers are phrases that mark a subscription prompt
// served in place of article content. Matched case-insensitively.
var defaultPaywallMarkers = []string{
	"subscribe to continue",
	"subscribe to read",
	"subscription required",
	"already a subscriber",
	"sign in to read",
	"log in to continue",
	"to continue reading",
	"create a free account to",
	"this article is for subscribers",
	"unlock this article",
	"you have reached your article limit",
}

// Ensure Validator implements newsgrab.Validator at compile time.
var _ newsgrab.Validator = (*Validator)(nil)

// Validator checks extracted text for completeness, paywall markers, and
// boilerplate. Validation is deterministic.
type Validator struct {
	minWords int
	markers  []string
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithMinWordCount sets the completeness floor.
// Defaults to DefaultMinWordCount.
func WithMinWordCount(n int) ValidatorOption {
	return func(v *Validator) { v.minWords = n }
}

// WithPaywallMarkers adds marker phrases to the default set.
func WithPaywallMarkers(markers ...string) ValidatorOption {
	return func(v *Validator) {
		for _, m := range markers {
			v.markers = append(v.markers, strings.ToLower(m))
		}
	}
}

// NewValidator creates a Validator with the default thresholds.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		minWords: DefaultMinWordCount,
		markers:  defaultPaywallMarkers,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate classifies extracted text. Check order: paywall markers, word
// count, navigation-line ratio, unique-word ratio.
func (v *Validator) Validate(text string) newsgrab.ValidationOutcome {
	lower := strings.ToLower(text)
	for _, marker := range v.markers {
		if strings.Contains(lower, marker) {
			return newsgrab.ValidationPaywalled
		}
	}

	words := strings.Fields(text)
	if len(words) < v.minWords {
		return newsgrab.ValidationTooShort
	}

	if navHeavy(text) {
		return newsgrab.ValidationPaywalled
	}

	if templateLike(words) {
		return newsgrab.ValidationBoilerplate
	}

	return newsgrab.ValidationOK
}

// navHeavy reports whether the text is dominated by short,
// navigation-like lines, the shape of a chrome-only page where the
// article body was withheld.
func navHeavy(text string) bool {
	var total, short int
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		total++
		if len(strings.Fields(line)) <= navLineMaxWords {
			short++
		}
	}
	if total < navLineMinLines {
		return false
	}
	return float64(short)/float64(total) > navLineRatio
}

// templateLike reports whether the text repeats itself like a generic
// site template rather than prose.
func templateLike(words []string) bool {
	if len(words) < uniqueWordMinWords {
		return false
	}
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
	}
	return float64(len(unique))/float64(len(words)) < uniqueWordRatio
}
