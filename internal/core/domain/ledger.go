package domain

import "time"

// LedgerEntry is the on-chain truth about a credential, keyed by the numeric
// ledger id. Entries are write-once and never mutated.
type LedgerEntry struct {
	ContentDigest  string    `json:"contentDigest"`
	IssuerIdentity string    `json:"issuerIdentity"`
	SubjectID      string    `json:"subjectID"`
	CreatedAt      time.Time `json:"createdAt"`
}
