package ports

import (
	"context"

	"github.com/certiblock/verifier-node/internal/core/domain"
)

// DirectoryGateway resolves institution identity history and searches the
// subject directory used for fuzzy matching of uploaded documents.
type DirectoryGateway interface {
	// IdentitySet returns every identity the institution has ever used on the
	// ledger, the current one included.
	IdentitySet(ctx context.Context, institution string) ([]string, error)
	// SearchSubjects returns directory hits for the extracted fields
	SearchSubjects(ctx context.Context, query domain.ExtractedFields, limit int) ([]domain.DirectorySubject, error)
}
