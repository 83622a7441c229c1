package newsgrab

// ValidationOutcome classifies post-extraction content checks.
type ValidationOutcome string

// Validation outcomes.
const (
	ValidationOK          ValidationOutcome = "ok"
	ValidationTooShort    ValidationOutcome = "too_short"
	ValidationPaywalled   ValidationOutcome = "paywall_detected"
	ValidationBoilerplate ValidationOutcome = "boilerplate_only"
)

// Validator checks extracted text for completeness, paywall markers, and
// boilerplate. Validation is a pure, deterministic function over text;
// it never mutates cache or session state.
type Validator interface {
	Validate(text string) ValidationOutcome
}

// CleanResult holds normalized text with its dedup metadata.
type CleanResult struct {
	Text        string
	Fingerprint string
	WordCount   int
}

// Cleaner normalizes raw extracted text: collapses whitespace, strips
// residual markup artifacts, removes duplicated leading/trailing
// boilerplate lines, and computes a content fingerprint. Clean is
// idempotent: Clean(Clean(x).Text) yields the same text.
type Cleaner interface {
	Clean(raw string) (*CleanResult, error)
}
