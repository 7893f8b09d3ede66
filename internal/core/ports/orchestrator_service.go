package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/certiblock/verifier-node/internal/core/domain"
)

// VerificationOrchestrator sequences the verification pipeline and aggregates
// the final verdict.
type VerificationOrchestrator interface {
	// Start launches an asynchronous verification run and returns its id
	Start(ctx context.Context, req domain.VerificationRequest) (uuid.UUID, error)
	// Verify runs the pipeline synchronously
	Verify(ctx context.Context, runID uuid.UUID, req domain.VerificationRequest, report domain.ProgressFunc) (*domain.VerificationVerdict, error)
	// Cancel aborts an in-flight run. Returns false if the run is unknown or
	// already finished.
	Cancel(ctx context.Context, runID uuid.UUID) bool
	// Status returns the last known snapshot of a run
	Status(ctx context.Context, runID uuid.UUID) (*domain.RunSnapshot, error)
}
