package domain

// MatchResult is a three-valued comparison outcome. Unknown means the check
// could not be performed, which is different from a proven mismatch.
type MatchResult string

// MatchResult values
const (
	MatchYes     MatchResult = "match"
	MatchNo      MatchResult = "mismatch"
	MatchUnknown MatchResult = "unknown"
)

// Rejection reasons named after the failing field
const (
	ReasonLedgerRecordNotFound  = "ledger record not found"
	ReasonIssuerMismatch        = "issuer identity mismatch"
	ReasonSubjectMismatch       = "subject identifier mismatch"
	ReasonContentDigestMismatch = "content digest mismatch"
	ReasonContentDigestUnknown  = "content digest unverified"
	ReasonIssueDateMismatch     = "issue date mismatch"
	ReasonLedgerIDMissing       = "record has no ledger entry"
	ReasonCredentialRevoked     = "credential revoked"
)

// WarningUnverifiableByLedger marks a legacy record that predates the ledger
// write path. It is a notice, not a failure.
const WarningUnverifiableByLedger = "unverifiable-by-ledger"

// LedgerCheck carries the field-by-field result of verifying a credential
// record against its ledger entry.
type LedgerCheck struct {
	Skipped          bool        `json:"skipped"`
	Exists           bool        `json:"exists"`
	IssuerMatch      bool        `json:"issuerMatch"`
	SubjectMatch     bool        `json:"subjectMatch"`
	ContentHashMatch MatchResult `json:"contentHashMatch"`
	DateMatch        bool        `json:"dateMatch"`
}

// Accepted tells whether the check passes. Skipped checks pass only in
// lenient mode; otherwise the entry must exist and all four fields match.
func (c LedgerCheck) Accepted(strict bool) bool {
	if c.Skipped {
		return !strict
	}
	return c.Exists && c.IssuerMatch && c.SubjectMatch && c.DateMatch && c.ContentHashMatch == MatchYes
}

// Reasons lists the rejection reasons, naming every failing field.
func (c LedgerCheck) Reasons(strict bool) []string {
	if c.Skipped {
		if strict {
			return []string{ReasonLedgerIDMissing}
		}
		return nil
	}
	if !c.Exists {
		return []string{ReasonLedgerRecordNotFound}
	}
	var reasons []string
	if !c.IssuerMatch {
		reasons = append(reasons, ReasonIssuerMismatch)
	}
	if !c.SubjectMatch {
		reasons = append(reasons, ReasonSubjectMismatch)
	}
	switch c.ContentHashMatch {
	case MatchNo:
		reasons = append(reasons, ReasonContentDigestMismatch)
	case MatchUnknown:
		reasons = append(reasons, ReasonContentDigestUnknown)
	}
	if !c.DateMatch {
		reasons = append(reasons, ReasonIssueDateMismatch)
	}
	return reasons
}
