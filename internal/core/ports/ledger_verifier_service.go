package ports

import (
	"context"

	"github.com/certiblock/verifier-node/internal/core/domain"
)

// LedgerVerifier checks a credential record against its ledger entry field by
// field.
type LedgerVerifier interface {
	Verify(ctx context.Context, record *domain.CredentialRecord) (domain.LedgerCheck, error)
}
