package ports

import (
	"context"

	"github.com/certiblock/verifier-node/internal/core/domain"
)

// AccessCodeRepository is the persistence interface for shareable access codes
type AccessCodeRepository interface {
	Save(ctx context.Context, code *domain.AccessCode) error
	GetByCode(ctx context.Context, code string) (*domain.AccessCode, error)
	Deactivate(ctx context.Context, ownerID, code string) error
	Delete(ctx context.Context, ownerID, code string) error
}
