package ports

import (
	"context"

	"github.com/certiblock/verifier-node/internal/core/domain"
)

// VisionGateway is the AI vision capability. Calls are long running and must
// honor context cancellation at call boundaries.
type VisionGateway interface {
	// ClassifyType returns the credential type of the document (diploma,
	// transcript, certificate...)
	ClassifyType(ctx context.Context, document []byte) (string, error)
	// ExtractFields pulls the canonical credential fields out of a document
	ExtractFields(ctx context.Context, document []byte) (domain.ExtractedFields, error)
	// CompareVisual runs the visual tamper analysis between a verified
	// original and a candidate document
	CompareVisual(ctx context.Context, original, candidate []byte, hintType string) (*domain.VisualAnalysis, error)
}
