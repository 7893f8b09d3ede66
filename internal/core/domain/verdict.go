package domain

import (
	"time"

	"github.com/google/uuid"
)

// Candidate sources
const (
	CandidateSourceCode = "access-code"
	CandidateSourceFile = "uploaded-file"
)

// ExtractedFields is the canonical shape of the fields pulled out of an
// uploaded document. All evidence coming from OCR/AI extraction is normalized
// into this struct at the locator boundary.
type ExtractedFields struct {
	SubjectName    string `json:"subjectName"`
	Institution    string `json:"institution"`
	Program        string `json:"program"`
	CredentialType string `json:"credentialType"`
}

// RankedCandidate is a credential record resolved from an uploaded file,
// tagged with the extraction confidence that produced it.
type RankedCandidate struct {
	Record     CredentialRecord `json:"record"`
	Confidence float64          `json:"confidence"`
	Extracted  ExtractedFields  `json:"extracted"`
}

// CandidateResult is the per-candidate outcome inside a verdict
type CandidateResult struct {
	Record     CredentialRecord `json:"record"`
	Source     string           `json:"source"`
	Confidence float64          `json:"confidence,omitempty"`
	Ledger     LedgerCheck      `json:"ledger"`
	Accepted   bool             `json:"accepted"`
	Reasons    []string         `json:"reasons,omitempty"`
	Warnings   []string         `json:"warnings,omitempty"`
}

// VerificationVerdict is the aggregated output of a verification run
type VerificationVerdict struct {
	RunID       uuid.UUID         `json:"runID"`
	Accepted    []CandidateResult `json:"accepted"`
	Rejected    []CandidateResult `json:"rejected"`
	Comparison  *ComparisonResult `json:"comparison,omitempty"`
	Warnings    []string          `json:"warnings,omitempty"`
	CompletedAt time.Time         `json:"completedAt"`
}
