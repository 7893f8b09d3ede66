package ports

import (
	"context"

	"github.com/certiblock/verifier-node/internal/core/domain"
)

// ComparisonEngine compares a verified original document against a candidate
// and produces a tamper report.
type ComparisonEngine interface {
	Compare(ctx context.Context, original, candidate []byte, hintType string, report domain.ProgressFunc) (*domain.ComparisonResult, error)
}
