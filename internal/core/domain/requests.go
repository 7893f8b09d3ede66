package domain

// ProgressFunc receives the ordered progress stream of a pipeline stage
type ProgressFunc func(ProgressUpdate)

// NoProgress is a ProgressFunc that discards updates
func NoProgress(ProgressUpdate) {}

// VerificationRequest is the input of a verification run. Exactly one of
// AccessCode or Document must be set. Comparison is optional and triggers the
// document comparison stage against the first accepted candidate.
type VerificationRequest struct {
	AccessCode     string
	Document       []byte
	DocumentMIME   string
	Comparison     []byte
	ComparisonMIME string
	HintType       string
}

// ByCode tells whether the request references credentials through an access code
func (r *VerificationRequest) ByCode() bool {
	return r.AccessCode != ""
}

// WantsComparison tells whether a comparison file was supplied
func (r *VerificationRequest) WantsComparison() bool {
	return len(r.Comparison) > 0
}
