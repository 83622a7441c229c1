package newsgrab

// Converter transforms extracted content HTML into plain text suitable
// for validation and downstream consumption.
type Converter interface {
	Convert(html string) (string, error)
}
