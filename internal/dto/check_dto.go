package dto

// CheckRequest carries the optional preprocessing flags for a plagiarism
// check. The zero value compares the full document texts.
type CheckRequest struct {
	ExcludeReferences bool `json:"exclude_references"`
	ExcludeQuotes     bool `json:"exclude_quotes"`
}
