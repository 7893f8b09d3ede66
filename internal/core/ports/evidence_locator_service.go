package ports

import (
	"context"

	"github.com/certiblock/verifier-node/internal/core/domain"
)

// EvidenceLocator resolves an access code or an uploaded file into candidate
// credential records.
type EvidenceLocator interface {
	ResolveByCode(ctx context.Context, code string) ([]domain.CredentialRecord, error)
	ResolveByFile(ctx context.Context, document []byte, mimeType string, report domain.ProgressFunc) ([]domain.RankedCandidate, error)
}
