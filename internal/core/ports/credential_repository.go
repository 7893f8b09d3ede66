package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/certiblock/verifier-node/internal/core/domain"
)

// CredentialRepository is the persistence interface for credential records
type CredentialRepository interface {
	Save(ctx context.Context, record *domain.CredentialRecord) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CredentialRecord, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.CredentialRecord, error)
	GetBySubjectID(ctx context.Context, subjectID string) ([]domain.CredentialRecord, error)
}
