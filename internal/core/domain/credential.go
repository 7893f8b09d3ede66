package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Credential statuses
const (
	CredentialStatusActive  = "active"
	CredentialStatusRevoked = "revoked"
)

// CredentialRecord is the off-chain truth about an issued credential. It is
// immutable after issuance except for Status. LedgerID is nil for records
// issued before the ledger write path existed.
type CredentialRecord struct {
	ID                     uuid.UUID `json:"id"`
	SubjectID              string    `json:"subjectID"`
	IssuerIdentity         string    `json:"issuerIdentity"`
	InstitutionIdentitySet []string  `json:"institutionIdentitySet"`
	ContentID              string    `json:"contentID"`
	LedgerID               *int64    `json:"ledgerID,omitempty"`
	IssuedAt               time.Time `json:"issuedAt"`
	Status                 string    `json:"status"`
	CreatedAt              time.Time `json:"createdAt"`
}

// HasLedgerEntry tells whether the record claims to be anchored on the ledger
func (c *CredentialRecord) HasLedgerEntry() bool {
	return c.LedgerID != nil
}

// KnownIdentity reports whether identity belongs to the historical identity
// set of the issuing institution. The comparison is case-insensitive and the
// current issuer identity is always part of the set.
func (c *CredentialRecord) KnownIdentity(identity string) bool {
	if strings.EqualFold(identity, c.IssuerIdentity) {
		return true
	}
	for _, known := range c.InstitutionIdentitySet {
		if strings.EqualFold(identity, known) {
			return true
		}
	}
	return false
}

// AccessCode is a shareable token dereferencing one or more credential
// records. Codes are independently revocable and deletable by their owner and
// never affect record identity.
type AccessCode struct {
	Code          string      `json:"code"`
	OwnerID       string      `json:"ownerID"`
	Active        bool        `json:"active"`
	CredentialIDs []uuid.UUID `json:"credentialIDs"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// IsBundle tells whether the code dereferences to more than one record
func (a *AccessCode) IsBundle() bool {
	return len(a.CredentialIDs) > 1
}
