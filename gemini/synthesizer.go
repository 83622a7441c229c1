// Package gemini implements selector synthesis using Google Gemini. The
// model sees only the page's structural skeleton (tags, ids, classes),
// never article text.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/newsgrab"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// refusalSentinel is the token the model is instructed to emit when no
// plausible content container exists in the skeleton.
const refusalSentinel = "NO_SELECTOR"

// Ensure Synthesizer implements newsgrab.SelectorSynthesizer at compile time.
var _ newsgrab.SelectorSynthesizer = (*Synthesizer)(nil)

// Synthesizer implements newsgrab.SelectorSynthesizer using Google Gemini.
type Synthesizer struct {
	client *genai.Client
}

// NewSynthesizer creates a new Synthesizer.
func NewSynthesizer(client *genai.Client) *Synthesizer {
	return &Synthesizer{client: client}
}

// Propose asks the model for a CSS selector matching the main article
// container in the skeleton. Returns EREFUSED when the model declines or
// produces an empty answer.
func (s *Synthesizer) Propose(ctx context.Context, skeleton string) (string, error) {
	if strings.TrimSpace(skeleton) == "" {
		return "", newsgrab.Errorf(newsgrab.EINVALID, "skeleton required")
	}

	prompt := BuildUserPrompt(skeleton)
	config := BuildConfig()

	result, err := s.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", newsgrab.Errorf(newsgrab.EINTERNAL, "gemini returned nil result")
	}

	return ParseSelector(result.Text())
}

// BuildConfig returns the GenerateContentConfig for selector synthesis.
// Temperature is kept low so the same skeleton yields the same selector.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.1)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are an expert at reading HTML document structure. Given a structural skeleton of a news page, respond with a single CSS selector that matches the main article content container. Respond with the selector only, no explanation and no code fences. If no element plausibly contains article content, respond with exactly " + refusalSentinel + ".",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing the page skeleton.
func BuildUserPrompt(skeleton string) string {
	var sb strings.Builder
	sb.WriteString("<skeleton>\n")
	sb.WriteString(skeleton)
	sb.WriteString("\n</skeleton>\n\n")
	sb.WriteString("CSS selector for the main article content:")
	return sb.String()
}

// ParseSelector normalizes a model response into a selector expression.
// Returns EREFUSED for the refusal sentinel or an empty answer.
func ParseSelector(response string) (string, error) {
	selector := strings.TrimSpace(response)
	selector = strings.TrimPrefix(selector, "```css")
	selector = strings.TrimPrefix(selector, "```")
	selector = strings.TrimSuffix(selector, "```")
	selector = strings.TrimSpace(selector)

	if selector == "" || strings.Contains(selector, refusalSentinel) {
		return "", newsgrab.Errorf(newsgrab.EREFUSED, "model declined to propose a selector")
	}
	// A multi-line answer means the model explained instead of answering.
	if strings.ContainsAny(selector, "\n\r") {
		return "", newsgrab.Errorf(newsgrab.EREFUSED, "model response is not a bare selector")
	}

	return selector, nil
}
